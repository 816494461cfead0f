// Command main runs the database seeder for DevFlow.
package main

import (
	"flag"
	"log"

	"devflow/internal/config"
	"devflow/internal/database"
	"devflow/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of demo users to create")
	perUser := flag.Int("snapshots", 20, "Number of snapshots per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d snapshots each, clean=%v\n", *numUsers, *perUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumUsers:     *numUsers,
		SnapshotsPer: *perUser,
		ShouldClean:  *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✅ Seeding complete")
}
