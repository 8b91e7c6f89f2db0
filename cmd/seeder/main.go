// cmd/seeder/main.go
//
// Applies the schema and loads a small demo data set: one owner with an item
// due today and an item due in ten days, so a manual batch run exercises
// both windows.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"pebble_scheduler/internal/domain/item"
	"pebble_scheduler/internal/domain/user"
	idb "pebble_scheduler/internal/infra/database"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := idb.NewPostgresConnection(dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	migrationFiles := []string{
		"migrations/001_init.sql",
	}
	for _, file := range migrationFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", file, err)
		}
		fmt.Printf("Applied: %s\n", file)
	}

	ctx := context.Background()
	userRepo := idb.NewPostgresUserRepository(db)
	itemRepo := idb.NewPostgresItemRepository(db)

	owner := &user.User{
		UID:   "demo-owner",
		Name:  "Lenny",
		Email: "lenny@example.com",
	}
	if err := userRepo.Create(ctx, owner); err != nil {
		log.Fatalf("failed to create demo user: %v", err)
	}

	now := time.Now()
	due := now
	reminder := time.Date(now.Year(), now.Month(), now.Day(), 9, 0, 0, 0, now.Location()).AddDate(0, 0, 10)

	items := []*item.Item{
		{
			ID:           uuid.NewString(),
			OwnerUID:     owner.UID,
			Recipient:    "friend@example.com",
			Name:         "Sam",
			Title:        "Due today",
			Message:      "This message fires on the next run.",
			SendDate:     due.UnixMilli(),
			Interval:     item.IntervalOneMonth,
			IsActive:     true,
			PostponeCode: uuid.NewString(),
		},
		{
			ID:           uuid.NewString(),
			OwnerUID:     owner.UID,
			Recipient:    "friend@example.com",
			Name:         "Sam",
			Title:        "Due in ten days",
			Message:      "This message gets a reminder on the next run.",
			SendDate:     reminder.UnixMilli(),
			Interval:     item.IntervalSixMonths,
			IsActive:     true,
			PostponeCode: uuid.NewString(),
		},
	}
	for _, it := range items {
		if err := itemRepo.Create(ctx, it); err != nil {
			log.Fatalf("failed to create demo item %q: %v", it.Title, err)
		}
		fmt.Printf("Seeded item: %s (%s)\n", it.Title, it.ID)
	}

	fmt.Println("Database seeding completed successfully!")
}
