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
func CreateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.Donation
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if input.DonorName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "donor_name is required"})
			return
		}
		if input.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be greater than 0"})
			return
		}

		now := time.Now()
		donation := models.Donation{
			ID:           primitive.NewObjectID(),
			DonorName:    input.DonorName,
			DonorContact: input.DonorContact,
			Amount:       input.Amount,
			Currency:     input.Currency,
			Method:       input.Method,
			PaymentRef:   input.PaymentRef,
			Status:       "PENDING",
			ReceiptURL:   input.ReceiptURL,
			Message:      input.Message,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := cfg.Collection("donations").InsertOne(ctx, donation); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create donation"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":      donation.ID.Hex(),
			"message": "donation recorded",
		})
	}
}

// ---------------- LIST ----------------
func ListDonations(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if status := c.Query("status"); status != "" {
			filter["status"] = status
		}
		if method := c.Query("method"); method != "" {
			filter["method"] = method
		}

		cursor, err := cfg.Collection("donations").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch donations"})
			return
		}

		var donations []models.Donation
		if err := cursor.All(ctx, &donations); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode donations"})
			return
		}

		if len(donations) == 0 {
			c.JSON(http.StatusOK, []models.Donation{})
			return
		}

		latest := donations[0]
		for _, d := range donations {
			if d.UpdatedAt.After(latest.UpdatedAt) {
				latest = d
			}
		}

		etag := utils.GenerateETag(latest.ID, latest.UpdatedAt)
		if match := c.GetHeader("If-None-Match"); match != "" && match == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Header("ETag", etag)
		c.Header("Last-Modified", latest.UpdatedAt.UTC().Format(http.TimeFormat))

		c.JSON(http.StatusOK, donations)
	}
}

// ---------------- GET ----------------
func GetDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		var donation models.Donation
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := cfg.Collection("donations").FindOne(ctx, bson.M{"_id": oid}).Decode(&donation); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		c.JSON(http.StatusOK, donation)
	}
}

// ---------------- UPDATE ----------------
func UpdateDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		var input models.Donation
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now()}
		if input.DonorName != "" {
			update["donor_name"] = input.DonorName
		}
		if input.DonorContact != "" {
			update["donor_contact"] = input.DonorContact
		}
		if input.Amount > 0 {
			update["amount"] = input.Amount
		}
		if input.Currency != "" {
			update["currency"] = input.Currency
		}
		if input.Method != "" {
			update["method"] = input.Method
		}
		if input.PaymentRef != "" {
			update["payment_reference"] = input.PaymentRef
		}
		if input.Status != "" {
			update["status"] = input.Status
		}
		if input.ReceiptURL != "" {
			update["receipt_url"] = input.ReceiptURL
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("donations").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update donation"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "donation updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
func DeleteDonation(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid donation id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("donations").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete donation"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "donation not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "donation deleted", "id": oid.Hex()})
	}
}
