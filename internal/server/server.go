package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"todo-service/internal/database"
	"todo-service/internal/service"
)

var log = logrus.New()

type Server struct {
	port        int
	todoService service.TodoService
	db          database.Service
}

// NewServer builds the http.Server with its routes and timeouts. The port
// comes from the PORT environment variable, defaulting to 8080.
func NewServer(todoService service.TodoService, dbService database.Service) *http.Server {
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Warnf("Invalid PORT environment variable %q, using default 8080: %v", portStr, err)
		port = 8080
	}

	appServer := &Server{
		port:        port,
		todoService: todoService,
		db:          dbService,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", appServer.port),
		Handler:      appServer.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
