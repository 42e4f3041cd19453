package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"movierealm/internal/cli"
	"movierealm/internal/config"
	"movierealm/internal/container"
	"movierealm/internal/logger"
)

func main() {
	// Env first so LOG_LEVEL from the file reaches the logger.
	envErr := godotenv.Load(".env.local")

	logger.Init()
	log := logger.Get()
	if envErr != nil {
		log.Info("No .env file found, using system environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	c, err := container.New(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize client")
	}
	defer c.Close()

	app := cli.NewApp(c, os.Stdout)
	if err := app.Run(ctx, os.Stdin); err != nil {
		log.WithError(err).Fatal("Command loop failed")
	}
}
