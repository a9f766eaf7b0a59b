package config

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Config carries everything handlers need: the Mongo client, database name,
// and auth settings. Handlers are closures over *Config.
type Config struct {
	MongoClient *mongo.Client
	DBName      string

	JWTSecret string
	JWTExpMin int
}

// Load reads configuration from the environment and connects to MongoDB.
// It fails fast on missing required settings.
func Load() *Config {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Fatal("MONGO_URI not set in env")
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		log.Fatal("MONGO_DB not set in env")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set in env")
	}

	expMinutes := 60
	if val := os.Getenv("JWT_EXP_MIN"); val != "" {
		if mins, err := strconv.Atoi(val); err == nil {
			expMinutes = mins
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("mongo.Connect error: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("mongo.Ping error: %v", err)
	}

	log.Println("Connected to MongoDB:", dbName)

	return &Config{
		MongoClient: client,
		DBName:      dbName,
		JWTSecret:   secret,
		JWTExpMin:   expMinutes,
	}
}

// Collection is a shorthand for the named collection in the configured database.
func (cfg *Config) Collection(name string) *mongo.Collection {
	return cfg.MongoClient.Database(cfg.DBName).Collection(name)
}
