package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	models "github.com/hopeworks/nonprofit-platform-go/models"
)

// ---------------- CREATE ----------------
func CreatePodcast(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string `form:"title" json:"title" binding:"required"`
			Description string `form:"description" json:"description"`
			AudioURL    string `form:"audio_url" json:"audio_url" binding:"required"`
			Duration    string `form:"duration" json:"duration"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		imageURL, err := uploadSingleImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}

		now := time.Now()
		podcast := models.Podcast{
			ID:          primitive.NewObjectID(),
			Title:       input.Title,
			Description: input.Description,
			AudioURL:    input.AudioURL,
			Image:       imageURL,
			Duration:    input.Duration,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("podcasts").InsertOne(ctx, podcast); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create podcast"})
			return
		}

		c.JSON(http.StatusCreated, podcast)
	}
}

// ---------------- LIST ----------------
func ListPodcasts(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("podcasts").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch podcasts"})
			return
		}

		podcasts := []models.Podcast{}
		if err := cursor.All(ctx, &podcasts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode podcasts"})
			return
		}

		c.JSON(http.StatusOK, podcasts)
	}
}

// ---------------- GET ----------------
func GetPodcast(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid podcast id"})
			return
		}

		var podcast models.Podcast
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("podcasts").FindOne(ctx, bson.M{"_id": oid}).Decode(&podcast); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "podcast not found"})
			return
		}

		c.JSON(http.StatusOK, podcast)
	}
}

// ---------------- UPDATE ----------------
func UpdatePodcast(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid podcast id"})
			return
		}

		var input struct {
			Title       string `form:"title" json:"title"`
			Description string `form:"description" json:"description"`
			AudioURL    string `form:"audio_url" json:"audio_url"`
			Duration    string `form:"duration" json:"duration"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Description != "" {
			update["description"] = input.Description
		}
		if input.AudioURL != "" {
			update["audio_url"] = input.AudioURL
		}
		if input.Duration != "" {
			update["duration"] = input.Duration
		}

		imageURL, err := uploadSingleImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}
		if imageURL != "" {
			update["image"] = imageURL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("podcasts").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update podcast"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "podcast not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "podcast updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeletePodcast(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid podcast id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("podcasts").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete podcast"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "podcast not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "podcast deleted", "id": oid.Hex()})
	}
}
