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
	utils "github.com/hopeworks/nonprofit-platform-go/utils"
)

// ---------------- CREATE ----------------
func CreateBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title   string `form:"title" binding:"required"`
			Author  string `form:"author"`
			Content string `form:"content" binding:"required"`
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
		blog := models.Blog{
			ID:        primitive.NewObjectID(),
			Title:     input.Title,
			Author:    input.Author,
			Content:   input.Content,
			Image:     imageURL,
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("blogs").InsertOne(ctx, blog); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create blog"})
			return
		}

		c.JSON(http.StatusCreated, blog)
	}
}

// ---------------- LIST ----------------
func ListBlogs(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("blogs").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch blogs"})
			return
		}

		var blogs []models.Blog
		if err := cursor.All(ctx, &blogs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode blogs"})
			return
		}

		if len(blogs) == 0 {
			c.JSON(http.StatusOK, []models.Blog{})
			return
		}

		latest := blogs[0]
		for _, b := range blogs {
			if b.UpdatedAt.After(latest.UpdatedAt) {
				latest = b
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, blogs)
	}
}

// ---------------- GET ----------------
func GetBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog id"})
			return
		}

		var blog models.Blog
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("blogs").FindOne(ctx, bson.M{"_id": oid}).Decode(&blog); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
			return
		}

		c.JSON(http.StatusOK, blog)
	}
}

// ---------------- UPDATE ----------------
func UpdateBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog id"})
			return
		}

		var input struct {
			Title   string `form:"title"`
			Author  string `form:"author"`
			Content string `form:"content"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.Title != "" {
			update["title"] = input.Title
		}
		if input.Author != "" {
			update["author"] = input.Author
		}
		if input.Content != "" {
			update["content"] = input.Content
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

		res, err := cfg.Collection("blogs").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update blog"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteBlog(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("blogs").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete blog"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "blog not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "blog deleted", "id": oid.Hex()})
	}
}
