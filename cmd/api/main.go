package main

import (
	"os"

	"github.com/yigit/devcamper/internal/pkg/logger"
	"github.com/yigit/devcamper/internal/server"
)

// @title DevCamper API
// @version 1.0
// @description Bootcamp directory API: bootcamps, courses, users and authentication

// @contact.name API Support
// @contact.email support@devcamper.io

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until a shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}
