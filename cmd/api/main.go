package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"todo-service/internal/database"
	"todo-service/internal/domain"
	"todo-service/internal/repository"
	"todo-service/internal/server"
	"todo-service/internal/service"
)

var log = logrus.New()

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	// In-flight requests get five seconds to finish.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Errorf("Server forced to shutdown with error: %v", err)
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			log.Errorf("Error closing database connection pool: %v", err)
		}
	}

	log.Info("Server exiting")
	done <- true
}

func main() {
	log.SetFormatter(&logrus.JSONFormatter{})

	dbService := database.New()
	gormDB := dbService.GetDB()

	if err := gormDB.AutoMigrate(&domain.Todo{}); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	todoRepo := repository.NewGormTodoRepository(gormDB)
	todoService := service.NewTodoService(todoRepo)
	apiServer := server.NewServer(todoService, dbService)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Infof("Starting server on %s", apiServer.Addr)
	err := apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("HTTP server ListenAndServe error: %v", err)
	}

	<-done
	log.Info("Graceful shutdown complete.")
}
