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
func CreateJob(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title        string  `json:"title" binding:"required"`
			Description  string  `json:"description" binding:"required"`
			Location     string  `json:"location"`
			Type         string  `json:"type"`
			Deadline     *string `json:"deadline"`
			ApplyEmail   string  `json:"apply_email"`
			Requirements string  `json:"requirements"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		deadline, err := parseDate(input.Deadline)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		now := time.Now()
		job := models.Job{
			ID:           primitive.NewObjectID(),
			Title:        input.Title,
			Description:  input.Description,
			Location:     input.Location,
			Type:         input.Type,
			Deadline:     deadline,
			ApplyEmail:   input.ApplyEmail,
			Requirements: input.Requirements,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("jobs").InsertOne(ctx, job); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create job"})
			return
		}

		c.JSON(http.StatusCreated, job)
	}
}

// ---------------- LIST ----------------
func ListJobs(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}
		if jobType := c.Query("type"); jobType != "" {
			filter["type"] = jobType
		}

		cursor, err := cfg.Collection("jobs").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch jobs"})
			return
		}

		jobs := []models.Job{}
		if err := cursor.All(ctx, &jobs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode jobs"})
			return
		}

		c.JSON(http.StatusOK, jobs)
	}
}

// ---------------- GET ----------------
func GetJob(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
			return
		}

		var job models.Job
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("jobs").FindOne(ctx, bson.M{"_id": oid}).Decode(&job); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}

		c.JSON(http.StatusOK, job)
	}
}

// ---------------- UPDATE ----------------
func UpdateJob(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
			return
		}

		var input struct {
			Title        string  `json:"title"`
			Description  string  `json:"description"`
			Location     string  `json:"location"`
			Type         string  `json:"type"`
			Deadline     *string `json:"deadline"`
			ApplyEmail   string  `json:"apply_email"`
			Requirements string  `json:"requirements"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
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
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.Type != "" {
			update["type"] = input.Type
		}
		if input.ApplyEmail != "" {
			update["apply_email"] = input.ApplyEmail
		}
		if input.Requirements != "" {
			update["requirements"] = input.Requirements
		}
		if input.Deadline != nil && *input.Deadline != "" {
			deadline, err := parseDate(input.Deadline)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deadline format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["deadline"] = deadline
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("jobs").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update job"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "job updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteJob(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("jobs").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete job"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "job deleted", "id": oid.Hex()})
	}
}
