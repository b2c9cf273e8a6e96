// notifgen runs one Activity-to-Notification generator pass and exits.
// Intended for cron; the same pass is reachable over HTTP via
// POST /notifications/generate-from-activities.
package main

import (
	"context"
	"log"
	"time"

	"labtrack/internal/di"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	app, err := di.InitializeApplication()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Mongo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	result, err := app.Generator.Run(ctx)
	if err != nil {
		log.Fatalf("Generator run failed: %v", err)
	}

	log.Printf("Generated %d notifications from recent activities", result.Count)

	app.Service.Shutdown()
	if err := app.Mongo.Close(ctx); err != nil {
		log.Printf("Mongo disconnect error: %v", err)
	}
}
