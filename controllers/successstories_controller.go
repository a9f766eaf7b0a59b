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
func CreateSuccessStory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title  string `form:"title" binding:"required"`
			Story  string `form:"story" binding:"required"`
			Author string `form:"author"`
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
		story := models.SuccessStory{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Story:     input.Story,
			Author:    input.Author,
			Image:     imageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("successstories").InsertOne(ctx, story); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create success story"})
			return
		}

		c.JSON(http.StatusCreated, story)
	}
}

// ---------------- LIST ----------------
func ListSuccessStories(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("successstories").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch success stories"})
			return
		}

		stories := []models.SuccessStory{}
		if err := cursor.All(ctx, &stories); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode success stories"})
			return
		}

		c.JSON(http.StatusOK, stories)
	}
}

// ---------------- UPDATE ----------------
func UpdateSuccessStory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
			return
		}

		var input struct {
			Title  string `form:"title"`
			Story  string `form:"story"`
			Author string `form:"author"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Story != "" {
			update["story"] = input.Story
		}
		if input.Author != "" {
			update["author"] = input.Author
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

		res, err := cfg.Collection("successstories").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update success story"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "success story not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "success story updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteSuccessStory(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid story id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("successstories").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete success story"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "success story not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "success story deleted", "id": oid.Hex()})
	}
}
