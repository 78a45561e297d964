package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zqg/nexis-board/internal/api"
	"github.com/zqg/nexis-board/internal/config"
	"github.com/zqg/nexis-board/internal/repository/sqlite"
	"github.com/zqg/nexis-board/internal/service"
	"github.com/zqg/nexis-board/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Initialize database
	db, err := sqlite.NewConnection(cfg.DatabasePath())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	// Initialize repositories
	repos := sqlite.NewRepositories(db)

	// Sessions live in process memory; a restart logs everyone out.
	sessions := session.NewMemoryStore()

	// Initialize services
	services := service.NewServices(repos, sessions, cfg)

	// Initialize router
	router := api.NewRouter(services, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("community board running on :%s", cfg.Port)
		log.Printf("owner id: %s", cfg.OwnerID)
		log.Printf("data dir: %s", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
