package server

import (
	"fmt"
	"strings"
	"time"

	"todo-service/internal/domain"
)

// timestampLayout is the fixed wire format for createdAt.
const timestampLayout = "2006/01/02 15:04:05"

// Timestamp serializes time.Time with the fixed-width timestamp pattern used
// on the wire instead of RFC 3339.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).Format(timestampLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*t = Timestamp(time.Time{})
		return nil
	}
	parsed, err := time.Parse(timestampLayout, s)
	if err != nil {
		return fmt.Errorf("invalid createdAt %q: expected pattern yyyy/MM/dd HH:mm:ss", s)
	}
	*t = Timestamp(parsed)
	return nil
}

// TodoResource is the wire representation of a todo. On input only todoTitle
// is honored; todoId, finished and createdAt are server-assigned.
type TodoResource struct {
	TodoID    int64     `json:"todoId"`
	TodoTitle string    `json:"todoTitle" validate:"required,max=30"`
	Finished  bool      `json:"finished"`
	CreatedAt Timestamp `json:"createdAt"`
}

func toTodoResource(todo *domain.Todo) TodoResource {
	return TodoResource{
		TodoID:    todo.TodoID,
		TodoTitle: todo.TodoTitle,
		Finished:  todo.Finished,
		CreatedAt: Timestamp(todo.CreatedAt),
	}
}

func toTodoResources(todos []domain.Todo) []TodoResource {
	resources := make([]TodoResource, 0, len(todos))
	for i := range todos {
		resources = append(resources, toTodoResource(&todos[i]))
	}
	return resources
}

func toTodo(resource *TodoResource) *domain.Todo {
	return &domain.Todo{
		TodoTitle: resource.TodoTitle,
	}
}
