package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo-service/internal/domain"
	"todo-service/internal/repository"
	"todo-service/internal/service"
)

func newTestService(t *testing.T) (service.TodoService, repository.TodoRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.Todo{}))

	repo := repository.NewGormTodoRepository(db)
	return service.NewTodoService(repo), repo
}

func createTodo(t *testing.T, svc service.TodoService, title string) *domain.Todo {
	t.Helper()
	created, err := svc.Create(context.Background(), &domain.Todo{TodoTitle: title})
	require.NoError(t, err)
	return created
}

func TestCreateAssignsDefaults(t *testing.T) {
	svc, _ := newTestService(t)

	before := time.Now()
	created, err := svc.Create(context.Background(), &domain.Todo{
		TodoTitle: "sample todo 1",
		Finished:  true, // ignored: new todos always start unfinished
	})
	require.NoError(t, err)

	assert.NotZero(t, created.TodoID)
	assert.Equal(t, "sample todo 1", created.TodoTitle)
	assert.False(t, created.Finished)
	assert.False(t, created.CreatedAt.Before(before), "createdAt must not precede the call")
}

func TestCreateAssignsUniqueIDs(t *testing.T) {
	svc, _ := newTestService(t)

	first := createTodo(t, svc, "sample todo 1")
	second := createTodo(t, svc, "sample todo 2")
	assert.NotEqual(t, first.TodoID, second.TodoID)
}

func TestCreateRejectsSixthUnfinished(t *testing.T) {
	svc, repo := newTestService(t)

	for i := 0; i < 5; i++ {
		createTodo(t, svc, "sample todo")
	}

	_, err := svc.Create(context.Background(), &domain.Todo{TodoTitle: "one too many"})
	var businessRule *domain.BusinessRuleError
	require.ErrorAs(t, err, &businessRule)

	unfinished, err := repo.CountByFinished(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), unfinished, "the rejected create must persist nothing")
}

func TestCreateCapIgnoresFinishedTodos(t *testing.T) {
	svc, _ := newTestService(t)

	for i := 0; i < 5; i++ {
		createTodo(t, svc, "sample todo")
	}
	first, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	_, err = svc.Finish(context.Background(), first[0].TodoID)
	require.NoError(t, err)

	// With one slot freed the cap allows another create.
	_, err = svc.Create(context.Background(), &domain.Todo{TodoTitle: "sample todo 6"})
	require.NoError(t, err)
}

func TestFindOne(t *testing.T) {
	svc, _ := newTestService(t)
	created := createTodo(t, svc, "sample todo 1")

	found, err := svc.FindOne(context.Background(), created.TodoID)
	require.NoError(t, err)
	assert.Equal(t, created.TodoID, found.TodoID)
	assert.Equal(t, "sample todo 1", found.TodoTitle)
}

func TestFindOneNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.FindOne(context.Background(), 42)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int64(42), notFound.TodoID)
	assert.Contains(t, err.Error(), "id=42")
}

func TestFindAll(t *testing.T) {
	svc, _ := newTestService(t)
	createTodo(t, svc, "sample todo 1")
	createTodo(t, svc, "sample todo 2")

	todos, err := svc.FindAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}

func TestFinish(t *testing.T) {
	svc, _ := newTestService(t)
	created := createTodo(t, svc, "sample todo 1")

	finished, err := svc.Finish(context.Background(), created.TodoID)
	require.NoError(t, err)
	assert.True(t, finished.Finished)
	assert.Equal(t, created.TodoID, finished.TodoID)
	assert.Equal(t, created.TodoTitle, finished.TodoTitle)
	assert.True(t, created.CreatedAt.Equal(finished.CreatedAt))

	persisted, err := svc.FindOne(context.Background(), created.TodoID)
	require.NoError(t, err)
	assert.True(t, persisted.Finished)
}

func TestFinishAlreadyFinished(t *testing.T) {
	svc, _ := newTestService(t)
	created := createTodo(t, svc, "sample todo 1")

	_, err := svc.Finish(context.Background(), created.TodoID)
	require.NoError(t, err)

	_, err = svc.Finish(context.Background(), created.TodoID)
	var businessRule *domain.BusinessRuleError
	require.ErrorAs(t, err, &businessRule)
}

func TestFinishNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Finish(context.Background(), 42)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(t)
	created := createTodo(t, svc, "sample todo 1")

	require.NoError(t, svc.Delete(context.Background(), created.TodoID))

	_, err := svc.FindOne(context.Background(), created.TodoID)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Delete(context.Background(), 42)
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
