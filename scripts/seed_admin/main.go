// Command seed_admin creates or updates a dashboard operator account.
// Intended for first-time setup and for resetting a locked-out admin:
//
//	go run ./scripts/seed_admin -email admin@terradosol.org -name "Admin" -role SUPERADMIN
//
// The password is read from the SEED_ADMIN_PASSWORD environment variable so it
// never lands in shell history.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/terra-do-sol/checkin-api/internal/models"
	"github.com/terra-do-sol/checkin-api/pkg/config"
	"github.com/terra-do-sol/checkin-api/pkg/database"
)

func main() {
	var (
		email    string
		fullName string
		role     string
	)
	flag.StringVar(&email, "email", "", "operator email (required)")
	flag.StringVar(&fullName, "name", "", "operator full name")
	flag.StringVar(&role, "role", string(models.RoleAdmin), "ADMIN or SUPERADMIN")
	flag.Parse()

	if email == "" {
		log.Fatal("-email is required")
	}
	if role != string(models.RoleAdmin) && role != string(models.RoleSuperAdmin) {
		log.Fatalf("invalid role %q", role)
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD must be set")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	const query = `INSERT INTO users (id, email, password_hash, full_name, role, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, true, now(), now())
        ON CONFLICT (email) DO UPDATE SET password_hash = $3, full_name = $4, role = $5, active = true, updated_at = now()`
	if _, err := db.ExecContext(ctx, query, uuid.NewString(), email, string(hash), fullName, role); err != nil {
		log.Fatalf("failed to upsert operator: %v", err)
	}

	log.Printf("operator %s ready (role %s)", email, role)
}
