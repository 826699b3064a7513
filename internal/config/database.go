package config

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/fx"
)

type MongoDBClient struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoDBClient(lc fx.Lifecycle, cfg *Config) (*MongoDBClient, *mongo.Database, error) {
	if cfg.MongoURI == "" {
		log.Fatal("MONGO_URI not set")
	}
	clientOptions := options.Client().ApplyURI(cfg.MongoURI)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB")

	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			log.Println("Closing MongoDB connection ...")
			return client.Disconnect(stopCtx)
		},
	})

	db := client.Database(cfg.MongoDatabase)
	ensureIndexes(db)
	return &MongoDBClient{Client: client, Database: db}, db, nil
}

// ensureIndexes creates the unique indexes the registration and catalog paths
// rely on for duplicate detection.
func ensureIndexes(db *mongo.Database) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	unique := func(collection string, key string) {
		_, err := db.Collection(collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{key: 1},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			log.Fatalf("Failed to create unique index %s.%s: %v", collection, key, err)
		}
	}

	unique("citizens", "email")
	unique("schools", "email")
	unique("schools", "cnpj")
	unique("governments", "email")
	unique("rewards", "name")
	unique("pickup_locations", "name")

	log.Println("MongoDB indexes ensured")
}
