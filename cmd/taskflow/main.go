package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"

	"github.com/taskflow-dev/taskflow/db"
	"github.com/taskflow-dev/taskflow/internal/auth"
	"github.com/taskflow-dev/taskflow/internal/handlers"
	"github.com/taskflow-dev/taskflow/internal/middleware"
	"github.com/taskflow-dev/taskflow/internal/router"
	"github.com/taskflow-dev/taskflow/internal/services"
	"github.com/taskflow-dev/taskflow/internal/store"
)

const defaultTokenTTLHours = 168

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env file not found, relying on environment")
	}

	dsn := os.Getenv("DATABASE_URL")

	if dsn == "" {
		logger.Fatal().Msg("DATABASE_URL is not set")
	}

	database, err := db.Connect(postgres.Open(dsn))

	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if err := db.Migrate(database); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	ttl := time.Duration(defaultTokenTTLHours) * time.Hour

	if raw := os.Getenv("JWT_TTL_HOURS"); raw != "" {
		hours, err := strconv.Atoi(raw)

		if err != nil || hours <= 0 {
			logger.Fatal().Str("JWT_TTL_HOURS", raw).Msg("invalid JWT_TTL_HOURS")
		}

		ttl = time.Duration(hours) * time.Hour
	}

	tokens, err := auth.NewJWTManager(os.Getenv("JWT_SECRET"), ttl)

	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure token signing")
	}

	domainStore := store.New(database)

	userService := services.NewUserService(domainStore, tokens, logger)
	projectService := services.NewProjectService(domainStore, logger)
	taskService := services.NewTaskService(domainStore, logger)

	r := router.NewRouter(router.Deps{
		Auth:           handlers.NewAuthHandler(userService, logger),
		Users:          handlers.NewUserHandler(userService, logger),
		Projects:       handlers.NewProjectHandler(projectService, logger),
		Tasks:          handlers.NewTaskHandler(taskService, logger),
		AuthMiddleware: middleware.AuthMiddleware(tokens, domainStore),
	})

	port := os.Getenv("PORT")

	if port == "" {
		port = "3000"
		logger.Info().Msg("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
