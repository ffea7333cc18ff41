package main

import (
	"context"
	"log"
	"os"

	"github.com/Josiascalt/tac-inventory-sys/cmd"
	"github.com/Josiascalt/tac-inventory-sys/internal/core/container"
	"github.com/Josiascalt/tac-inventory-sys/internal/core/routes"
	"github.com/Josiascalt/tac-inventory-sys/internal/database"
	"github.com/Josiascalt/tac-inventory-sys/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	appContainer, err := container.NewAppContainer(db, zapLogger)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	router := gin.Default()
	routes.RegisterRoutes(router, appContainer)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
