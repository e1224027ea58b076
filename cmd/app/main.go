package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo_webapp/internal/config"
	"todo_webapp/internal/events"
	httpServer "todo_webapp/internal/http"
	"todo_webapp/internal/logger"
	"todo_webapp/internal/service"
	"todo_webapp/internal/store"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open store", "driver", cfg.StoreDriver, "error", err)
	}
	defer repo.Close()

	hub := ws.NewHub()
	defer hub.Close()

	// Without Redis, events only reach clients of this instance.
	var pub events.Publisher = events.NewLocal(hub)
	if cfg.RedisAddr != "" {
		rdb, err := events.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Fatal("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		}
		defer rdb.Close()

		broker := events.NewRedisBroker(rdb, events.DefaultChannel, hub)
		go func() {
			if err := broker.Run(ctx, nil); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("event subscriber stopped", "error", err)
			}
		}()
		pub = broker
	}

	todos := service.NewTodoService(repo, pub)

	r := httpServer.NewEngine(httpServer.Options{
		Todos:         todos,
		Hub:           hub,
		Version:       cfg.AppVersion,
		AllowedOrigin: cfg.AllowedOrigin,
		StaticDir:     cfg.StaticDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "driver", cfg.StoreDriver, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
