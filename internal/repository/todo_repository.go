package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"todo-service/internal/domain"
)

// TodoRepository defines the data operations for todos, one method per query.
// No method applies business rules; that is the service's job.
type TodoRepository interface {
	// FindByID returns the matching todo, or (nil, nil) when no row matches.
	FindByID(ctx context.Context, id int64) (*domain.Todo, error)

	// FindAll returns every row; an empty slice when the table is empty.
	FindAll(ctx context.Context) ([]domain.Todo, error)

	// Create inserts the todo and writes the storage-assigned id back into it.
	Create(ctx context.Context, todo *domain.Todo) error

	// UpdateFinishedByID sets finished = true for the matching row and
	// returns the affected-row count (0 when no row matches).
	UpdateFinishedByID(ctx context.Context, id int64) (int64, error)

	// DeleteByID removes the matching row and returns the affected-row count.
	DeleteByID(ctx context.Context, id int64) (int64, error)

	// CountByFinished counts the rows whose finished flag equals the argument.
	CountByFinished(ctx context.Context, finished bool) (int64, error)

	// Transaction runs fn against a repository bound to a single database
	// transaction: committed when fn returns nil, rolled back otherwise.
	Transaction(ctx context.Context, fn func(TodoRepository) error) error
}

// gormTodoRepository implements TodoRepository using GORM.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a GORM-backed todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) FindByID(ctx context.Context, id int64) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).First(&todo, "todo_id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return &todo, nil
}

func (r *gormTodoRepository) FindAll(ctx context.Context) ([]domain.Todo, error) {
	todos := make([]domain.Todo, 0)
	result := r.db.WithContext(ctx).Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	// GORM writes the generated primary key back into todo.TodoID.
	result := r.db.WithContext(ctx).Create(todo)
	return result.Error
}

func (r *gormTodoRepository) UpdateFinishedByID(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("todo_id = ?", id).
		Update("finished", true)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, "todo_id = ?", id)
	return result.RowsAffected, result.Error
}

func (r *gormTodoRepository) CountByFinished(ctx context.Context, finished bool) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("finished = ?", finished).
		Count(&count)
	return count, result.Error
}

func (r *gormTodoRepository) Transaction(ctx context.Context, fn func(TodoRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTodoRepository{db: tx})
	})
}
