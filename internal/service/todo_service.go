package service

import (
	"context"
	"fmt"
	"time"

	"todo-service/internal/domain"
	"todo-service/internal/repository"
)

// maxUnfinishedCount caps how many todos may be unfinished at the same time.
const maxUnfinishedCount = 5

// TodoService contains the business logic for managing todos.
type TodoService interface {
	// FindOne retrieves a single todo, failing with domain.NotFoundError
	// when the id has no matching row.
	FindOne(ctx context.Context, id int64) (*domain.Todo, error)

	// FindAll retrieves every todo.
	FindAll(ctx context.Context) ([]domain.Todo, error)

	// Create persists a new todo after checking the unfinished-item cap.
	// It stamps CreatedAt, forces Finished to false and returns the record
	// with its storage-assigned id.
	Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error)

	// Finish marks an unfinished todo as finished. Finishing an already
	// finished todo fails with domain.BusinessRuleError.
	Finish(ctx context.Context, id int64) (*domain.Todo, error)

	// Delete removes a todo, failing with domain.NotFoundError when the id
	// does not exist.
	Delete(ctx context.Context, id int64) error
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a todo service backed by the given repository.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func (s *todoService) FindOne(ctx context.Context, id int64) (*domain.Todo, error) {
	return findOne(ctx, s.repo, id)
}

// findOne is shared with Finish and Delete so their existence checks run
// against the same transaction-scoped repository.
func findOne(ctx context.Context, repo repository.TodoRepository, id int64) (*domain.Todo, error) {
	todo, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo == nil {
		return nil, &domain.NotFoundError{TodoID: id}
	}
	return todo, nil
}

func (s *todoService) FindAll(ctx context.Context) ([]domain.Todo, error) {
	return s.repo.FindAll(ctx)
}

func (s *todoService) Create(ctx context.Context, todo *domain.Todo) (*domain.Todo, error) {
	err := s.repo.Transaction(ctx, func(repo repository.TodoRepository) error {
		// Check-then-act: the cap is checked, not reserved. Two creates
		// racing past this count can both commit and momentarily exceed
		// the cap under the engine's default isolation level.
		unfinished, err := repo.CountByFinished(ctx, false)
		if err != nil {
			return err
		}
		if unfinished >= maxUnfinishedCount {
			return &domain.BusinessRuleError{
				Message: fmt.Sprintf("the count of unfinished todos must not be over %d", maxUnfinishedCount),
			}
		}

		todo.CreatedAt = time.Now()
		todo.Finished = false
		return repo.Create(ctx, todo)
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Finish(ctx context.Context, id int64) (*domain.Todo, error) {
	var todo *domain.Todo
	err := s.repo.Transaction(ctx, func(repo repository.TodoRepository) error {
		var err error
		todo, err = findOne(ctx, repo, id)
		if err != nil {
			return err
		}
		if todo.Finished {
			return &domain.BusinessRuleError{
				Message: fmt.Sprintf("the requested todo is already finished (id=%d)", id),
			}
		}

		// The in-memory record is flipped before the update is issued and
		// the affected-row count is not checked.
		todo.Finished = true
		_, err = repo.UpdateFinishedByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id int64) error {
	return s.repo.Transaction(ctx, func(repo repository.TodoRepository) error {
		if _, err := findOne(ctx, repo, id); err != nil {
			return err
		}
		_, err := repo.DeleteByID(ctx, id)
		return err
	})
}
