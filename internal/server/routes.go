package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"

	"todo-service/internal/domain"
)

var validate = validator.New()

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", s.helloHandler)
	r.Get("/health", s.healthHandler)
	r.Handle("/metrics", metricsHandler())

	r.Route("/todos", func(r chi.Router) {
		r.Get("/", s.getTodosHandler)
		r.Post("/", s.postTodoHandler)
		r.Get("/{todoId}", s.getTodoHandler)
		r.Put("/{todoId}", s.putTodoHandler)
		r.Delete("/{todoId}", s.deleteTodoHandler)
	})

	return r
}

func (s *Server) helloHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Hello from todo-service!"})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	healthStats := s.db.Health()
	if status, ok := healthStats["status"]; ok && status == "down" {
		respondWithJSON(w, http.StatusServiceUnavailable, healthStats)
		return
	}
	respondWithJSON(w, http.StatusOK, healthStats)
}

func (s *Server) getTodosHandler(w http.ResponseWriter, r *http.Request) {
	todos, err := s.todoService.FindAll(r.Context())
	if err != nil {
		log.Errorf("Error calling FindAll service: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to retrieve todos")
		return
	}

	respondWithJSON(w, http.StatusOK, toTodoResources(todos))
}

func (s *Server) getTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	todo, err := s.todoService.FindOne(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "FindOne", "Failed to retrieve todo", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toTodoResource(todo))
}

func (s *Server) postTodoHandler(w http.ResponseWriter, r *http.Request) {
	var resource TodoResource

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	err := decoder.Decode(&resource)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		switch {
		case errors.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		case errors.Is(err, io.ErrUnexpectedEOF):
			respondWithError(w, http.StatusBadRequest, "Request body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			respondWithError(w, http.StatusBadRequest, msg)
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			respondWithError(w, http.StatusBadRequest, msg)
		case errors.Is(err, io.EOF):
			respondWithError(w, http.StatusBadRequest, "Request body must not be empty")
		default:
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
		}
		return
	}

	if err := validate.Struct(&resource); err != nil {
		respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	// Only the title is taken from the request; id, finished and createdAt
	// are assigned server-side.
	created, err := s.todoService.Create(r.Context(), toTodo(&resource))
	if err != nil {
		s.respondServiceError(w, "Create", "Failed to create todo", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, toTodoResource(created))
}

func (s *Server) putTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	// The request body is ignored: PUT on a todo means "finish it".
	finished, err := s.todoService.Finish(r.Context(), id)
	if err != nil {
		s.respondServiceError(w, "Finish", "Failed to finish todo", err)
		return
	}

	respondWithJSON(w, http.StatusOK, toTodoResource(finished))
}

func (s *Server) deleteTodoHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := todoIDParam(w, r)
	if !ok {
		return
	}

	if err := s.todoService.Delete(r.Context(), id); err != nil {
		s.respondServiceError(w, "Delete", "Failed to delete todo", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// todoIDParam parses the {todoId} path parameter, writing a 400 response and
// returning ok=false when it is not a positive integer.
func todoIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "todoId")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid todo ID provided")
		return 0, false
	}
	return id, true
}

// validationMessage names the violated constraint on the create body.
func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			switch fieldError.Tag() {
			case "required":
				return "todoTitle must not be empty"
			case "max":
				return fmt.Sprintf("todoTitle must be at most %s characters", fieldError.Param())
			}
		}
	}
	return "Request body failed validation"
}

// respondServiceError maps the service's error kinds to status codes: not
// found to 404, business rule violations to 409, everything else to 500.
func (s *Server) respondServiceError(w http.ResponseWriter, op, failureMsg string, err error) {
	var notFound *domain.NotFoundError
	var businessRule *domain.BusinessRuleError
	switch {
	case errors.As(err, &notFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &businessRule):
		respondWithError(w, http.StatusConflict, err.Error())
	default:
		log.Errorf("Error calling %s service: %v", op, err)
		respondWithError(w, http.StatusInternalServerError, failureMsg)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	if code >= http.StatusInternalServerError {
		errorCounter.WithLabelValues(strconv.Itoa(code)).Inc()
	}
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Error marshaling JSON response: %v", err)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal server error preparing response"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}
