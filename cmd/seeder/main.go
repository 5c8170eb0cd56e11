package main

import (
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := make(map[string]string)
	required := []string{"TURSO_PRIMARY_URL", "TURSO_AUTH_TOKEN"}

	for _, key := range required {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		} else {
			log.Fatalf("Error: Required environment variable %s is not set.", key)
		}
	}
	return config
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	// Connect directly to the primary database
	dbURL := fmt.Sprintf("%s?authToken=%s", cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	db, err := sql.Open("libsql", dbURL)
	if err != nil {
		log.Fatalf("Failed to open primary database: %s", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to primary database: %s", err)
	}

	log.Info("Successfully connected to the primary database.")

	// Register a small roster of bots to battle with.
	bots := []string{"bot-mewtwo", "bot-pikachu", "bot-garchomp", "bot-dragonite"}
	for _, bot := range bots {
		_, err := db.Exec("INSERT OR IGNORE INTO bot_stats (id, rating) VALUES (?, ?)", bot, 1200.0)
		if err != nil {
			log.Fatalf("Failed to insert bot %s: %s", bot, err)
		}
	}
	log.Info("Ensured roster bots exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	formats := []string{"gen9ou", "gen9randombattle", "gen9ubers"}
	outcomes := []string{"win", "win", "win", "draw", "inconclusive"}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}
	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO match_results
		(match_id, participant_a, participant_b, winner, outcome, format, duration_ms, turn_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Fatalf("Failed to prepare insert: %s", err)
	}

	for i := 0; i < numMatches; i++ {
		a := bots[rand.Intn(len(bots))]
		b := bots[rand.Intn(len(bots))]
		for b == a {
			b = bots[rand.Intn(len(bots))]
		}
		outcome := outcomes[rand.Intn(len(outcomes))]
		winner := ""
		if outcome == "win" {
			if rand.Intn(2) == 0 {
				winner = a
			} else {
				winner = b
			}
		}
		createdAt := time.Now().Add(-time.Duration(rand.Intn(72)) * time.Hour).UnixMilli()

		_, err := stmt.Exec(
			uuid.New().String(), a, b, winner, outcome,
			formats[rand.Intn(len(formats))],
			(30+rand.Intn(600))*1000,
			5+rand.Intn(80),
			createdAt,
		)
		if err != nil {
			log.Fatalf("Failed to insert dummy match: %s", err)
		}

		if (i+1)%batchSize == 0 {
			if err := tx.Commit(); err != nil {
				log.Fatalf("Failed to commit batch: %s", err)
			}
			tx, err = db.Begin()
			if err != nil {
				log.Fatalf("Failed to begin transaction: %s", err)
			}
			stmt, err = tx.Prepare(`INSERT OR IGNORE INTO match_results
				(match_id, participant_a, participant_b, winner, outcome, format, duration_ms, turn_count, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
			if err != nil {
				log.Fatalf("Failed to prepare insert: %s", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit final batch: %s", err)
	}

	log.Info("Seeding complete.", "matches", numMatches, "duration", time.Since(startTime))
}
