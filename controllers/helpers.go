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

// fetchParticipantSummaries resolves participant ids to name/email/phone
// summaries for event and program listings.
func fetchParticipantSummaries(ctx context.Context, cfg *config.Config, ids []primitive.ObjectID) ([]models.ParticipantSummary, error) {
	if len(ids) == 0 {
		return []models.ParticipantSummary{}, nil
	}

	cursor, err := cfg.Collection("users").Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	summaries := []models.ParticipantSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// parseDate accepts RFC3339 or a few common date layouts.
func parseDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		layouts := []string{"2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}
		for _, layout := range layouts {
			if t, e := time.Parse(layout, *raw); e == nil {
				return &t, nil
			}
		}
		return nil, err
	}
	return &parsed, nil
}

// uploadSingleImage pushes the "image" multipart file to Cloudinary if one
// was attached. Returns "" when the request carries no image.
func uploadSingleImage(c *gin.Context) (string, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		if err == http.ErrNotMultipart {
			return "", nil
		}
		return "", nil
	}
	files := form.File["image"]
	if len(files) == 0 {
		return "", nil
	}

	file, err := files[0].Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	return utils.UploadToCloudinary(file, "uploads")
}
