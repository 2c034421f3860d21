package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/ocmafia/server/config"
	"github.com/ocmafia/server/pkg/helpers"
)

// Seeds a development database: an admin account, the base role catalog
// and one enlisting game. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hasher := helpers.NewPasswordHasher(cfg.BcryptCost, cfg.HashWorkers)

	username := "Valentinian"
	password := "password123"
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (username, password_hash, security_question, security_answer, clearance)
		VALUES ($1, $2, $3, $4, 'ADMIN')
		ON CONFLICT (LOWER(username)) DO UPDATE SET clearance = 'ADMIN'
		RETURNING id
	`, username, hash, "What city was I founded in?", "rome").Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s username=%s password=%s\n", adminID, username, password)

	roles := []struct {
		name, alignment, description string
	}{
		{"Citizen", "TOWN", "No special abilities. Wins with the town."},
		{"Doctor", "TOWN", "Protects one character from elimination each night."},
		{"Detective", "TOWN", "Investigates one character's alignment each night."},
		{"Mafioso", "MAFIA", "Votes with the mafia on a nightly elimination."},
		{"Godfather", "MAFIA", "Leads the mafia and reads as innocent to investigations."},
		{"Jester", "NEUTRAL", "Wins alone by getting voted out."},
	}
	for _, r := range roles {
		if _, err := db.Exec(`
			INSERT INTO roles (name, alignment, description)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET alignment = EXCLUDED.alignment, description = EXCLUDED.description
		`, r.name, r.alignment, r.description); err != nil {
			log.Fatalf("failed to upsert role %s: %v", r.name, err)
		}
	}
	fmt.Printf("roles ensured: %d\n", len(roles))

	var gameID string
	err = db.QueryRow(`
		INSERT INTO games (name, location, player_count, status, main_host_id,
			winner_crowns, winner_rubies, loser_rubies, loser_strikes)
		SELECT 'First Blood', 'The Forum', 10, 'ENLISTING', $1, 1, 10, 3, 1
		WHERE NOT EXISTS (SELECT 1 FROM games WHERE name = 'First Blood')
		RETURNING id
	`, adminID).Scan(&gameID)
	if err != nil && err != sql.ErrNoRows {
		log.Fatalf("failed to seed game: %v", err)
	}
	if gameID != "" {
		fmt.Printf("seeded game: id=%s\n", gameID)
	}
}
