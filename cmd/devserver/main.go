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

	"alcyxob/fitness-client/internal/config"
	"alcyxob/fitness-client/internal/server"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting development backend...")

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	if cfg.JWT.Secret == "" {
		log.Println("WARN: jwt.secret not set, using an insecure development secret")
		cfg.JWT.Secret = "dev-secret"
	}

	srv := server.New(cfg.JWT.Secret, cfg.JWT.Expiration, gin.Logger())

	locations, err := srv.SeedLocations(context.Background())
	if err != nil {
		log.Fatalf("FATAL: Could not seed locations: %v", err)
	}
	for _, l := range locations {
		log.Printf("INFO: seeded location %s (%s)", l.Name, l.ID.Hex())
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      srv.Router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting.")
}
