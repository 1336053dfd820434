package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"presence/internal/config"
	"presence/internal/server"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(cfg config.App) error {
	var state server.StateStore
	if cfg.StateBackend == "redis" && cfg.RedisAddr != "" {
		rs := server.NewRedisState(cfg.RedisAddr)
		if !rs.Healthy(context.Background()) {
			log.Printf("warning: redis not reachable at %s", cfg.RedisAddr)
		}
		state = rs
	} else {
		state = server.NewMemoryState()
	}

	var events server.EventLog
	if cfg.DatabaseURL != "" {
		pg, err := server.NewPostgresLog(cfg.DatabaseURL)
		if err != nil {
			log.Printf("warning: event log disabled, db not reachable: %v", err)
		} else {
			defer pg.Close()
			events = pg
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      server.New(cfg, state, events).Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("attendance backend listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("forced shutdown: %v", err)
	}
	log.Println("server exited")
	return nil
}
