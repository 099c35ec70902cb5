package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"easyapp_server/config"
	"easyapp_server/internal/api"
	"easyapp_server/internal/build"
	"easyapp_server/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		return serve(cfg)
	},
}

func serve(cfg config.Config) error {
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
		log.Println("Running in Gin Debug Mode")
	}

	sessions, err := store.NewSessions(cfg.SessionCapacity)
	if err != nil {
		return err
	}
	generator := newGenerator(cfg)
	log.Printf("Using model provider %s (model %s)", generator.Provider(), cfg.Model())

	apiHandler := api.NewAPIHandler(sessions, build.NewService(generator), cfg.MaxUploadMB<<20)
	router := api.NewRouter(apiHandler, cfg.CORSAllowedOrigins)

	// No WriteTimeout: a build request stays open for the whole model call.
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listenErr := make(chan error, 1)
	go func() {
		log.Printf("Starting API server on %s\n", cfg.ServerAddress)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
			return
		}
		log.Println("API server has stopped listening.")
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		return err
	case sig := <-quit:
		log.Printf("Received signal: %s. Shutting down server...", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced shutdown error: %v", err)
	} else {
		log.Println("API server gracefully stopped.")
	}

	log.Println("Application exiting.")
	return nil
}
