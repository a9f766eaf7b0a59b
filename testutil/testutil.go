package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	config "github.com/hopeworks/nonprofit-platform-go/config"
	models "github.com/hopeworks/nonprofit-platform-go/models"
	utils "github.com/hopeworks/nonprofit-platform-go/utils"
)

// TestPassword is the plain-text password every fixture user is created with.
const TestPassword = "password123"

// SetupTestConfig connects to the test MongoDB (MONGO_TEST_URI, default
// localhost) and returns a Config bound to a fresh throwaway database.
// Tests are skipped when no Mongo instance is reachable.
func SetupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo not available: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Skipf("mongo not available: %v", err)
	}

	dbName := "nonprofit_test_" + primitive.NewObjectID().Hex()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Database(dbName).Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return &config.Config{
		MongoClient: client,
		DBName:      dbName,
		JWTSecret:   "test-secret-key",
		JWTExpMin:   60,
	}
}

// Token issues a bearer token for the given user.
func Token(t *testing.T, cfg *config.Config, user models.User) string {
	t.Helper()
	token, err := utils.GenerateJWT(cfg, user.ID.Hex(), user.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// TestContext returns a context suitable for test DB calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	cfg *config.Config
	t   *testing.T
}

func NewFixtures(t *testing.T, cfg *config.Config) *Fixtures {
	t.Helper()
	return &Fixtures{cfg: cfg, t: t}
}

// CreateUser inserts a user with the given role and TestPassword.
// Approval fields follow registration semantics for company/ngo roles.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	// MinCost keeps fixture creation fast.
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		Role:      role,
		Phone:     "0700000000",
		CreatedAt: now,
	}
	if models.RequiresApproval(role) {
		user.ApprovalStatus = models.ApprovalPending
	}

	if _, err := f.cfg.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin inserts an admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateEvent inserts an event with the given enrolled participants.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, participants ...primitive.ObjectID) models.Event {
	f.t.Helper()

	if participants == nil {
		participants = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	event := models.Event{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.cfg.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// CreateProgram inserts a program with the given enrolled participants.
func (f *Fixtures) CreateProgram(ctx context.Context, title string, participants ...primitive.ObjectID) models.Program {
	f.t.Helper()

	if participants == nil {
		participants = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	program := models.Program{
		ID:           primitive.NewObjectID(),
		Title:        title,
		Participants: participants,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.cfg.Collection("programs").InsertOne(ctx, program); err != nil {
		f.t.Fatalf("failed to create test program: %v", err)
	}
	return program
}

// UserByEmail looks up a user document by email.
func (f *Fixtures) UserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := f.cfg.Collection("users").FindOne(ctx, map[string]interface{}{"email": email}).Decode(&user)
	return user, err
}

// GetUser reloads a user document for assertions.
func (f *Fixtures) GetUser(ctx context.Context, id primitive.ObjectID) models.User {
	f.t.Helper()

	var user models.User
	if err := f.cfg.Collection("users").FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&user); err != nil {
		f.t.Fatalf("failed to reload user %s: %v", id.Hex(), err)
	}
	return user
}

// GetEvent reloads an event document for assertions.
func (f *Fixtures) GetEvent(ctx context.Context, id primitive.ObjectID) models.Event {
	f.t.Helper()

	var event models.Event
	if err := f.cfg.Collection("events").FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&event); err != nil {
		f.t.Fatalf("failed to reload event %s: %v", id.Hex(), err)
	}
	return event
}

// GetProgram reloads a program document for assertions.
func (f *Fixtures) GetProgram(ctx context.Context, id primitive.ObjectID) models.Program {
	f.t.Helper()

	var program models.Program
	if err := f.cfg.Collection("programs").FindOne(ctx, map[string]interface{}{"_id": id}).Decode(&program); err != nil {
		f.t.Fatalf("failed to reload program %s: %v", id.Hex(), err)
	}
	return program
}
