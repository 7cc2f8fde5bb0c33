package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go-hiring-harvester/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set. Please check your .env file.")
	}

	fmt.Println("Attempting to connect to PostgreSQL...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := database.ConnectDB(ctx, dbURL)
	if err != nil {
		log.Fatalf("❌ %v\n(Check your connection string and password)", err)
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("❌ %v", err)
	}
	fmt.Println("✅ Schema is in place")

	addrs, err := repo.KnownAddresses(ctx)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	fmt.Printf("📧 %d addresses mirrored so far\n", len(addrs))
}
