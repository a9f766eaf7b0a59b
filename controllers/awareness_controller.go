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
func CreateAwareness(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title   string `form:"title" binding:"required"`
			Content string `form:"content" binding:"required"`
			Link    string `form:"link"`
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
		campaign := models.Awareness{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Content:   input.Content,
			Image:     imageURL,
			Link:      input.Link,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("awareness").InsertOne(ctx, campaign); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create awareness campaign"})
			return
		}

		c.JSON(http.StatusCreated, campaign)
	}
}

// ---------------- LIST ----------------
func ListAwareness(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("awareness").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch awareness campaigns"})
			return
		}

		campaigns := []models.Awareness{}
		if err := cursor.All(ctx, &campaigns); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode awareness campaigns"})
			return
		}

		c.JSON(http.StatusOK, campaigns)
	}
}

// ---------------- UPDATE ----------------
func UpdateAwareness(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid awareness id"})
			return
		}

		var input struct {
			Title   string `form:"title"`
			Content string `form:"content"`
			Link    string `form:"link"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Content != "" {
			update["content"] = input.Content
		}
		if input.Link != "" {
			update["link"] = input.Link
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

		res, err := cfg.Collection("awareness").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update awareness campaign"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "awareness campaign not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "awareness campaign updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteAwareness(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid awareness id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("awareness").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete awareness campaign"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "awareness campaign not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "awareness campaign deleted", "id": oid.Hex()})
	}
}
