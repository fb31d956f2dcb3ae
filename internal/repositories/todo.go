package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"nextday/internal/models"
)

// TodoRepository は todos テーブルを操作します。
type TodoRepository struct {
	DB *sql.DB
}

func NewTodoRepository(db *sql.DB) *TodoRepository {
	return &TodoRepository{DB: db}
}

const todoColumns = "id, content, completed, list_id, user_id, created_at, updated_at"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (*models.Todo, error) {
	var t models.Todo
	if err := s.Scan(&t.ID, &t.Content, &t.Completed, &t.ListID, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create はTodoを未完了状態で作成します。
func (r *TodoRepository) Create(ctx context.Context, ownerID, listID int, content string) (*models.Todo, error) {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todos (user_id, list_id, content, completed, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		ownerID, listID, content, false, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("could not insert todo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

// FindByOwner はユーザーの全Todoを作成順で返します。
func (r *TodoRepository) FindByOwner(ctx context.Context, ownerID int) ([]models.Todo, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+todoColumns+" FROM todos WHERE user_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not query todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, id int) (*models.Todo, error) {
	t, err := scanTodo(r.DB.QueryRowContext(ctx, "SELECT "+todoColumns+" FROM todos WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("could not query todo: %w", err)
	}
	return t, nil
}

// Update は指定されたフィールドだけを更新します。どちらも nil の場合は現在の行を返します。
func (r *TodoRepository) Update(ctx context.Context, id int, patch models.UpdateTodoRequest) (*models.Todo, error) {
	sets := []string{}
	args := []any{}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now(), id)

	res, err := r.DB.ExecContext(ctx, "UPDATE todos SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("could not update todo: %w", err)
	}
	if err := expectRow(res, ErrTodoNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

func (r *TodoRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete todo: %w", err)
	}
	return expectRow(res, ErrTodoNotFound)
}
