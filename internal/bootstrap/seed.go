package bootstrap

import (
	"context"
	"log"
	"time"

	"OliaRewards/internal/auth"
	"OliaRewards/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Seed upserts the reference data the platform needs on first boot: the
// government account, the reward catalog and the soap pickup locations.
// Every upsert keys on a unique field so reruns are no-ops.
func Seed(db *mongo.Database, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	seedGovernment(ctx, db, cfg)
	seedRewards(ctx, db)
	seedPickupLocations(ctx, db)

	log.Println("Seed data ensured")
}

func seedGovernment(ctx context.Context, db *mongo.Database, cfg *config.Config) {
	hash, err := auth.HashPassword(cfg.SeedGovernmentPassword)
	if err != nil {
		log.Fatal("Failed to hash seed government password:", err)
	}

	_, err = db.Collection("governments").UpdateOne(ctx,
		bson.M{"email": cfg.SeedGovernmentEmail},
		bson.M{"$setOnInsert": bson.M{
			"name":          "Governo Municipal",
			"email":         cfg.SeedGovernmentEmail,
			"password_hash": hash,
			"created_at":    time.Now(),
		}},
		options.Update().SetUpsert(true))
	if err != nil {
		log.Fatal("Failed to seed government account:", err)
	}
}

func seedRewards(ctx context.Context, db *mongo.Database) {
	rewards := []bson.M{
		{"name": "Computadores Novos", "description": "5 computadores para laboratório de informática", "points": 5000, "image": "💻"},
		{"name": "Ventiladores", "description": "10 ventiladores para salas de aula", "points": 3000, "image": "🌀"},
		{"name": "Material de Laboratório", "description": "Kit completo de ciências", "points": 7000, "image": "🔬"},
		{"name": "Livros Didáticos", "description": "100 livros para biblioteca", "points": 4000, "image": "📚"},
	}

	for _, reward := range rewards {
		doc := bson.M{
			"name":        reward["name"],
			"description": reward["description"],
			"points":      reward["points"],
			"image":       reward["image"],
			"is_active":   true,
			"created_at":  time.Now(),
		}
		_, err := db.Collection("rewards").UpdateOne(ctx,
			bson.M{"name": reward["name"]},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Fatal("Failed to seed rewards:", err)
		}
	}
}

func seedPickupLocations(ctx context.Context, db *mongo.Database) {
	locations := []bson.M{
		{"name": "Farmácia Popular Centro", "address": "Av. Central, 100", "date": time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), "start_time": "09:00", "end_time": "16:00"},
		{"name": "Farmácia Popular Jardim", "address": "Rua do Jardim, 250", "date": time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), "start_time": "08:00", "end_time": "17:00"},
	}

	for _, location := range locations {
		doc := bson.M{
			"name":       location["name"],
			"address":    location["address"],
			"date":       location["date"],
			"start_time": location["start_time"],
			"end_time":   location["end_time"],
			"available":  true,
			"created_at": time.Now(),
		}
		_, err := db.Collection("pickup_locations").UpdateOne(ctx,
			bson.M{"name": location["name"]},
			bson.M{"$setOnInsert": doc},
			options.Update().SetUpsert(true))
		if err != nil {
			log.Fatal("Failed to seed pickup locations:", err)
		}
	}
}
