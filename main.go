package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/tablesession-api/config"
	"github.com/yeremiapane/tablesession-api/database"
	"github.com/yeremiapane/tablesession-api/events"
	"github.com/yeremiapane/tablesession-api/router"
	"github.com/yeremiapane/tablesession-api/services"
	"github.com/yeremiapane/tablesession-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load config: %v", err)
	}
	utils.ConfigureLogger(cfg.App.LogLevel, cfg.App.LogFormat)

	if cfg.Mode() == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate database: %v", err)
	}

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to create event publisher: %v", err)
	}
	defer publisher.Close()

	relay := services.NewEventRelay(db, publisher)
	relay.Interval = cfg.Events.RelayInterval
	relay.BatchSize = cfg.Events.BatchSize
	relay.Start()
	defer relay.Stop()

	r := router.SetupRouter(db, cfg)
	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server shutdown: %v", err)
	}
}
