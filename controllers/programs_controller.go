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
func CreateProgram(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Title       string  `form:"title" binding:"required"`
			Description string  `form:"description"`
			Location    string  `form:"location"`
			StartDate   *string `form:"start_date"`
			EndDate     *string `form:"end_date"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		startDate, err := parseDate(input.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
			return
		}
		endDate, err := parseDate(input.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
			return
		}

		imageURL, err := uploadSingleImage(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
			return
		}

		now := time.Now()
		program := models.Program{
			ID:           primitive.NewObjectID(),
			Title:        input.Title,
			Description:  input.Description,
			Location:     input.Location,
			StartDate:    startDate,
			EndDate:      endDate,
			Image:        imageURL,
			Participants: []primitive.ObjectID{},
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("programs").InsertOne(ctx, program); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create program"})
			return
		}

		c.JSON(http.StatusCreated, program)
	}
}

// ---------------- LIST ----------------
func ListPrograms(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if q := c.Query("q"); q != "" {
			filter["title"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("programs").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch programs"})
			return
		}

		var programs []models.Program
		if err := cursor.All(ctx, &programs); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode programs"})
			return
		}

		if len(programs) == 0 {
			c.JSON(http.StatusOK, []models.Program{})
			return
		}

		latest := programs[0]
		for _, p := range programs {
			if p.UpdatedAt.After(latest.UpdatedAt) {
				latest = p
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, programs)
	}
}

// ---------------- GET ----------------
func GetProgram(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		var program models.Program
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("programs").FindOne(ctx, bson.M{"_id": oid}).Decode(&program); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
			return
		}

		etag := utils.GenerateETag(program.ID, program.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)

		c.JSON(http.StatusOK, program)
	}
}

// ---------------- UPDATE ----------------
func UpdateProgram(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		var input struct {
			Title       string  `form:"title"`
			Description string  `form:"description"`
			Location    string  `form:"location"`
			StartDate   *string `form:"start_date"`
			EndDate     *string `form:"end_date"`
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
		if input.Location != "" {
			update["location"] = input.Location
		}
		if input.StartDate != nil && *input.StartDate != "" {
			startDate, err := parseDate(input.StartDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["start_date"] = startDate
		}
		if input.EndDate != nil && *input.EndDate != "" {
			endDate, err := parseDate(input.EndDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, use RFC3339 or YYYY-MM-DD"})
				return
			}
			update["end_date"] = endDate
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

		col := cfg.Collection("programs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update program"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
			return
		}

		var updated models.Program
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&updated); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve updated program"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "program updated", "program": updated})
	}
}

// ---------------- DELETE ----------------
func DeleteProgram(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		col := cfg.Collection("programs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var existing models.Program
		if err := col.FindOne(ctx, bson.M{"_id": oid}).Decode(&existing); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
			return
		}

		if _, err := col.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete program"})
			return
		}

		if existing.Image != "" {
			utils.DeleteFromCloudinary(existing.Image)
		}

		c.JSON(http.StatusOK, gin.H{"message": "program deleted", "id": oid.Hex()})
	}
}

// ---------------- JOIN ----------------
// Same conditional-update enrollment as JoinEvent; at most one concurrent
// join for a given (program, user) pair can succeed.
func JoinProgram(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		userID, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.Collection("programs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": programID, "participants": bson.M{"$ne": userID}},
			bson.M{
				"$push": bson.M{"participants": userID},
				"$set":  bson.M{"updated_at": time.Now()},
			})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}

		if res.MatchedCount == 0 {
			count, err := col.CountDocuments(ctx, bson.M{"_id": programID})
			if err == nil && count == 0 {
				c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "already registered"})
			return
		}

		var program models.Program
		if err := col.FindOne(ctx, bson.M{"_id": programID}).Decode(&program); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve program"})
			return
		}

		participants, err := fetchParticipantSummaries(ctx, cfg, program.Participants)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message":      "registered",
			"program":      program,
			"participants": participants,
		})
	}
}

// ---------------- REMOVE PARTICIPANT ----------------
func RemoveProgramParticipant(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		var input struct {
			UserID string `json:"user_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
			return
		}
		userID, err := primitive.ObjectIDFromHex(input.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		col := cfg.Collection("programs")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := col.UpdateOne(ctx,
			bson.M{"_id": programID},
			bson.M{"$pull": bson.M{"participants": userID}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not remove participant"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "participant removed", "id": programID.Hex()})
	}
}

// ---------------- LIST PARTICIPANTS ----------------
func ListProgramParticipants(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		programID, err := primitive.ObjectIDFromHex(c.Param("programId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid program id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var program models.Program
		if err := cfg.Collection("programs").FindOne(ctx, bson.M{"_id": programID}).Decode(&program); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "program not found"})
			return
		}

		participants, err := fetchParticipantSummaries(ctx, cfg, program.Participants)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load participants"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"participants": participants,
			"count":        len(participants),
		})
	}
}
