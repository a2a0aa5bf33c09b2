// @title AcAIA Backend API
// @version 1.0
// @description AI-assisted learning platform: tutoring chats, generated problems and exams, career guidance.

// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"acaia_backend/internal/app"
	"acaia_backend/internal/config"
	"acaia_backend/pkg/logger"
	"log"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}
