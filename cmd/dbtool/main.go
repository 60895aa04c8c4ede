package main

import (
	"car-maneuver-service/internal/adapters/repositories"
	"car-maneuver-service/internal/config"
	"car-maneuver-service/internal/platform/db"
	"context"
	"database/sql"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres schema for the maneuver log and, with
// PRUNE_DAYS set, deletes maneuvers older than that many days.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initSchema(ctx, conn); err != nil {
		log.Fatal(err)
	}

	pruneDays, err := config.GetInt("PRUNE_DAYS", 0)
	if err != nil {
		log.Fatal(err)
	}
	if pruneDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -pruneDays)
		n, err := repositories.NewPostgresManeuverRepository(conn).PruneBefore(ctx, cutoff)
		if err != nil {
			log.Fatalf("prune failed: %v", err)
		}
		log.Printf("Pruned %d maneuvers started before %s.", n, cutoff.Format(time.RFC3339))
	}
}

func initSchema(ctx context.Context, conn *sql.DB) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return err
	}
	log.Println("Schema ready.")
	return nil
}
