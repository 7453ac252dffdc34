package main

import (
	"log"
	"os"

	"notehub-be/internal/model"
	"notehub-be/pkg/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Demo Account...")

	demoEmail := "demo@notehub.local"
	demoPassword := os.Getenv("SEED_DEMO_PASSWORD")
	if demoPassword == "" {
		demoPassword = "demo123"
	}

	var user model.User
	if err := db.Where("email = ?", demoEmail).First(&user).Error; err == nil {
		log.Printf("User '%s' already exists, skipping...", demoEmail)
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Error hashing demo password: %v", err)
		}
		user = model.User{
			Name:         "Demo User",
			Email:        demoEmail,
			PasswordHash: string(hash),
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Error creating demo user: %v", err)
		}
		log.Printf("Created user: %s (%s)", user.Name, user.Email)
	}

	log.Println("Seeding Demo Notes...")
	SeedDemoNotes(db, user)

	log.Println("Seeding completed!")
}
