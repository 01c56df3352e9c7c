package repository

import (
	"context"
	"fmt"
	"strings"

	"go-taskboard/internal/model"
)

type TodoRepository struct {
	pool Pool
}

func NewTodoRepository(pool Pool) *TodoRepository {
	return &TodoRepository{pool: pool}
}

func (r *TodoRepository) ListByUser(ctx context.Context, userID int64) ([]model.Todo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, text, details, status, created_at, user_id
		 FROM todos WHERE user_id = $1
		 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]model.Todo, 0)
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(&t.ID, &t.Text, &t.Details, &t.Status, &t.CreatedAt, &t.UserID); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, t)
	}
	return todos, rows.Err()
}

func (r *TodoRepository) Create(ctx context.Context, t model.Todo) (model.Todo, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO todos (text, details, status, created_at, user_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		t.Text, t.Details, t.Status, t.CreatedAt, t.UserID).Scan(&t.ID)
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return t, nil
}

// Update builds a parameterized SET list from the provided fields only,
// scoped to the owning user.
func (r *TodoRepository) Update(ctx context.Context, id int64, userID int64, upd model.TodoUpdate) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 5)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Text != nil {
		set("text", *upd.Text)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}
	if upd.Details != nil {
		set("details", *upd.Details)
	}
	if len(sets) == 0 {
		return model.ErrNoUpdateFields
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(
		`UPDATE todos SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTodoNotFound
	}
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64, userID int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTodoNotFound
	}
	return nil
}
