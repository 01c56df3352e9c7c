package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-taskboard/internal/model"
	"go-taskboard/pkg/apierror"
)

const (
	defaultTodoStatus  = "todo"
	defaultTodoDetails = "Click to add details"
)

type TodoStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Todo, error)
	Create(ctx context.Context, t model.Todo) (model.Todo, error)
	Update(ctx context.Context, id int64, userID int64, upd model.TodoUpdate) error
	Delete(ctx context.Context, id int64, userID int64) error
}

type TodoService struct {
	todos TodoStore
	now   func() time.Time
}

func NewTodoService(todos TodoStore) *TodoService {
	return &TodoService{todos: todos, now: time.Now}
}

func (s *TodoService) List(ctx context.Context, userID int64) ([]model.Todo, error) {
	todos, err := s.todos.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, userID int64, text string, details string) (model.Todo, error) {
	if strings.TrimSpace(text) == "" {
		return model.Todo{}, apierror.BadRequest("Todo text is required.")
	}
	if details == "" {
		details = defaultTodoDetails
	}

	todo, err := s.todos.Create(ctx, model.Todo{
		Text:      text,
		Details:   details,
		Status:    defaultTodoStatus,
		CreatedAt: s.now().UTC(),
		UserID:    userID,
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

func (s *TodoService) Update(ctx context.Context, id int64, userID int64, upd model.TodoUpdate) error {
	if upd.Empty() {
		return apierror.BadRequest("No fields to update.")
	}

	err := s.todos.Update(ctx, id, userID, upd)
	if errors.Is(err, model.ErrTodoNotFound) {
		return apierror.NotFound("Todo not found or you do not have permission to update it.")
	}
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}

func (s *TodoService) Delete(ctx context.Context, id int64, userID int64) error {
	err := s.todos.Delete(ctx, id, userID)
	if errors.Is(err, model.ErrTodoNotFound) {
		return apierror.NotFound("Todo not found or you do not have permission to delete it.")
	}
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
