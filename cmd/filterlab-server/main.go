package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/akarlsen/filterlab/internal/middleware"
	"github.com/akarlsen/filterlab/internal/rest"
	"github.com/akarlsen/filterlab/photo/application"
	"github.com/akarlsen/filterlab/photo/persistence"
	"github.com/akarlsen/filterlab/shared/db/sqlite"
)

const (
	port            = 8080
	shutdownTimeout = 5 * time.Second
)

func main() {
	// Initialize dependencies
	database := sqlite.NewSQLiteDB(sqlite.NewSQLiteConfig())
	if err := database.Connect(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	store := persistence.NewDiskImageStore(persistence.NewStoreConfig())
	saves := persistence.NewSavedImageRepository(database.DB())

	component := application.NewFilteredImage(store, saves)

	service := gin.New()
	service.Use(middleware.LoggingMiddleware())
	service.Use(gin.CustomRecovery(middleware.HandlePanics()))

	rest.NewApi(service, rest.NewPhotoHandler(component, saves))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: service,
	}

	go func() {
		log.Info().Msg("Starting server on port :" + fmt.Sprint(port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info().Msg("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}
