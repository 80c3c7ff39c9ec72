package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-task-manager/config"
	"github.com/oksasatya/go-task-manager/pkg/helpers"
)

type seedTask struct {
	title       string
	description string
	status      string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hash, err := helpers.HashPassword("password123")
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	johnID := seedUser(db, "John Doe", "john@example.com", hash)
	janeID := seedUser(db, "Jane Smith", "jane@example.com", hash)

	seedTasks(db, johnID, []seedTask{
		{"Complete project documentation", "Write comprehensive documentation for the new project", "pending"},
		{"Review code changes", "Review pull requests from team members", "in-progress"},
		{"Setup development environment", "Configure local development environment for new developers", "completed"},
		{"Plan sprint meeting", "Prepare agenda and schedule sprint planning meeting", "pending"},
		{"Update dependencies", "Update all project dependencies to latest versions", "in-progress"},
	})
	seedTasks(db, janeID, []seedTask{
		{"Design user interface", "Create mockups for the new dashboard", "completed"},
		{"Test application", "Perform comprehensive testing of all features", "in-progress"},
		{"Deploy to production", "Deploy the latest version to production server", "pending"},
	})

	fmt.Println("database seeded; sample users:")
	fmt.Println("- john@example.com (password: password123)")
	fmt.Println("- jane@example.com (password: password123)")
}

func seedUser(db *sql.DB, name, email, hash string) string {
	var id string
	err := db.QueryRow(`
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	fmt.Printf("seeded user: id=%s email=%s\n", id, email)
	return id
}

func seedTasks(db *sql.DB, userID string, tasks []seedTask) {
	// Rerunning the seed should not pile up duplicates.
	var existing int
	if err := db.QueryRow(`SELECT count(*) FROM tasks WHERE user_id = $1`, userID).Scan(&existing); err != nil {
		log.Fatalf("failed to count tasks: %v", err)
	}
	if existing > 0 {
		fmt.Printf("user %s already has %d tasks, skipping\n", userID, existing)
		return
	}
	for _, t := range tasks {
		if _, err := db.Exec(`
			INSERT INTO tasks (user_id, title, description, status)
			VALUES ($1, $2, $3, $4)
		`, userID, t.title, t.description, t.status); err != nil {
			log.Fatalf("failed to seed task %q: %v", t.title, err)
		}
	}
	fmt.Printf("seeded %d tasks for user %s\n", len(tasks), userID)
}
