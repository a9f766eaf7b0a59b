package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	models "github.com/hopeworks/nonprofit-platform-go/models"
	utils "github.com/hopeworks/nonprofit-platform-go/utils"
)

// ---------------- REGISTER ----------------
func Register(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name     string `form:"name" json:"name" binding:"required"`
			Email    string `form:"email" json:"email" binding:"required,email"`
			Password string `form:"password" json:"password" binding:"required,min=6"`
			Role     string `form:"role" json:"role" binding:"required"`
			Phone    string `form:"phone" json:"phone"`
			Address  string `form:"address" json:"address"`
		}

		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Admin accounts are provisioned out of band.
		if !models.ValidRegistrationRole(input.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		usersCol := cfg.Collection("users")

		var existing models.User
		err := usersCol.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existing)
		if err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		if err != mongo.ErrNoDocuments {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			return
		}

		// --- Handle file uploads ---
		form, err := c.MultipartForm()
		if err != nil && err != http.ErrNotMultipart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
			return
		}

		var imageURL string
		var documentURLs []string
		if form != nil {
			if files := form.File["image"]; len(files) > 0 {
				file, err := files[0].Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
					return
				}
				imageURL, err = utils.UploadToCloudinary(file, "uploads")
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
					return
				}
			}

			for _, fileHeader := range form.File["documents"] {
				file, err := fileHeader.Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open file"})
					return
				}
				url, err := utils.UploadToCloudinary(file, "documents")
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{
						"error":   "document upload failed",
						"details": err.Error(),
						"file":    fileHeader.Filename,
					})
					return
				}
				documentURLs = append(documentURLs, url)
			}
		}

		// NGO registrations must attach at least one registration document.
		if input.Role == models.RoleNGO && len(documentURLs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "registration documents are required for ngo accounts"})
			return
		}

		hash, err := utils.HashPassword(input.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
			return
		}

		now := time.Now().UTC()
		user := models.User{
			ID:        primitive.NewObjectID(),
			Name:      input.Name,
			Email:     input.Email,
			Password:  hash,
			Role:      input.Role,
			Phone:     input.Phone,
			Address:   input.Address,
			Image:     imageURL,
			Documents: documentURLs,
			CreatedAt: now,
		}
		if models.RequiresApproval(input.Role) {
			user.IsApproved = false
			user.ApprovalStatus = models.ApprovalPending
		}

		if _, err := usersCol.InsertOne(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}

		resp := gin.H{"message": "user registered", "id": user.ID.Hex()}
		if user.ApprovalStatus != "" {
			resp["approval_status"] = user.ApprovalStatus
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// ---------------- LOGIN ----------------
func Login(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		err := cfg.Collection("users").FindOne(ctx, bson.M{"email": input.Email}).Decode(&user)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		if err := utils.CheckPassword(user.Password, input.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		// Credentials are valid. Unapproved company/ngo accounts authenticate
		// but get no token; the client renders the approval state instead.
		if models.RequiresApproval(user.Role) && user.ApprovalStatus != models.ApprovalApproved {
			resp := gin.H{
				"message":         "account not approved",
				"is_approved":     false,
				"approval_status": user.ApprovalStatus,
			}
			if user.ApprovalStatus == models.ApprovalRejected {
				resp["rejection_reason"] = user.RejectionReason
			}
			c.JSON(http.StatusOK, resp)
			return
		}

		token, err := utils.GenerateJWT(cfg, user.ID.Hex(), user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
			return
		}

		resp := gin.H{
			"token": token,
			"user": gin.H{
				"id":    user.ID.Hex(),
				"name":  user.Name,
				"email": user.Email,
				"role":  user.Role,
			},
		}
		if models.RequiresApproval(user.Role) {
			resp["is_approved"] = user.IsApproved
			resp["approval_status"] = user.ApprovalStatus
		}
		c.JSON(http.StatusOK, resp)
	}
}

// ---------------- APPROVE ----------------
// ApproveUser moves a company/ngo account to approved. Re-approving an
// already-approved account is a no-op success; approving a rejected account
// overturns the rejection and clears the stored reason.
func ApproveUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		usersCol := cfg.Collection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		update := bson.M{
			"$set": bson.M{
				"is_approved":     true,
				"approval_status": models.ApprovalApproved,
				"updated_at":      time.Now().UTC(),
			},
			"$unset": bson.M{"rejection_reason": ""},
		}
		if _, err := usersCol.UpdateByID(ctx, oid, update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve user"})
			return
		}

		if user.ApprovalStatus != models.ApprovalApproved {
			if err := utils.SendEmail(user.Email, user.Name, "Account approved",
				"Your account has been approved. You can now log in."); err != nil {
				log.Printf("approval email to %s failed: %v", user.Email, err)
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message":         "user approved",
			"id":              oid.Hex(),
			"approval_status": models.ApprovalApproved,
		})
	}
}

// ---------------- REJECT ----------------
func RejectUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Reason string `json:"reason" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "rejection reason is required"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		usersCol := cfg.Collection("users")

		var user models.User
		if err := usersCol.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		update := bson.M{"$set": bson.M{
			"is_approved":      false,
			"approval_status":  models.ApprovalRejected,
			"rejection_reason": input.Reason,
			"updated_at":       time.Now().UTC(),
		}}
		if _, err := usersCol.UpdateByID(ctx, oid, update); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject user"})
			return
		}

		if err := utils.SendEmail(user.Email, user.Name, "Account rejected",
			"Your account was not approved. Reason: "+input.Reason); err != nil {
			log.Printf("rejection email to %s failed: %v", user.Email, err)
		}

		c.JSON(http.StatusOK, gin.H{
			"message":          "user rejected",
			"id":               oid.Hex(),
			"approval_status":  models.ApprovalRejected,
			"rejection_reason": input.Reason,
		})
	}
}

// ---------------- PENDING APPROVALS ----------------
func PendingApprovals(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		cursor, err := cfg.Collection("users").Find(ctx, bson.M{"approval_status": models.ApprovalPending})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch pending approvals"})
			return
		}

		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode users"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
	}
}

// ---------------- LIST ----------------
func ListUsers(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		filter := bson.M{}
		if role := c.Query("role"); role != "" {
			filter["role"] = role
		}
		if q := c.Query("q"); q != "" {
			filter["name"] = bson.M{"$regex": q, "$options": "i"}
		}

		cursor, err := cfg.Collection("users").Find(ctx, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
			return
		}

		users := []models.User{}
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not decode users"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// ---------------- GET ----------------
func GetUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ---------------- PROFILE ----------------
// Profile returns the authenticated caller's own account.
func Profile(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.GetString("user_id"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := cfg.Collection("users").FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ---------------- UPDATE ----------------
func UpdateUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		var input struct {
			Name    string `form:"name" json:"name"`
			Phone   string `form:"phone" json:"phone"`
			Address string `form:"address" json:"address"`
		}
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		update := bson.M{"updated_at": time.Now().UTC()}
		if input.Name != "" {
			update["name"] = input.Name
		}
		if input.Phone != "" {
			update["phone"] = input.Phone
		}
		if input.Address != "" {
			update["address"] = input.Address
		}

		// --- Handle new profile image (multipart form) ---
		form, _ := c.MultipartForm()
		if form != nil {
			if files := form.File["image"]; len(files) > 0 {
				file, err := files[0].Open()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open image"})
					return
				}
				url, err := utils.UploadToCloudinary(file, "uploads")
				file.Close()
				if err != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed", "details": err.Error()})
					return
				}
				update["image"] = url
			}
		}

		if len(update) == 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": update})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update user"})
			return
		}
		if res.MatchedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user updated", "id": oid.Hex()})
	}
}

// ---------------- DELETE ----------------
// DeleteUser removes an account and scrubs its id from every event and
// program participant list. The two cleanups are separate update-many calls
// run as part of the same logical delete.
func DeleteUser(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		oid, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		res, err := cfg.Collection("users").DeleteOne(ctx, bson.M{"_id": oid})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete user"})
			return
		}
		if res.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}

		pull := bson.M{"$pull": bson.M{"participants": oid}}
		if _, err := cfg.Collection("events").UpdateMany(ctx, bson.M{"participants": oid}, pull); err != nil {
			log.Printf("participant cleanup (events) for %s failed: %v", oid.Hex(), err)
		}
		if _, err := cfg.Collection("programs").UpdateMany(ctx, bson.M{"participants": oid}, pull); err != nil {
			log.Printf("participant cleanup (programs) for %s failed: %v", oid.Hex(), err)
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted", "id": oid.Hex()})
	}
}
