package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nextday/internal/models"
)

// TodoListRepository は todo_lists テーブルを操作します。
type TodoListRepository struct {
	DB *sql.DB
}

func NewTodoListRepository(db *sql.DB) *TodoListRepository {
	return &TodoListRepository{DB: db}
}

const todoListColumns = "id, name, user_id, created_at, updated_at"

// Create はリストを作成し、作成された行を返します。
func (r *TodoListRepository) Create(ctx context.Context, ownerID int, name string) (*models.TodoList, error) {
	ts := now()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO todo_lists (user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		ownerID, name, ts, ts)
	if err != nil {
		return nil, fmt.Errorf("could not insert todo list: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	return r.FindByID(ctx, int(id))
}

// FindByOwner はユーザーのリストを作成順 (ID昇順) で返します。
func (r *TodoListRepository) FindByOwner(ctx context.Context, ownerID int) ([]models.TodoList, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+todoListColumns+" FROM todo_lists WHERE user_id = ? ORDER BY id", ownerID)
	if err != nil {
		return nil, fmt.Errorf("could not query todo lists: %w", err)
	}
	defer rows.Close()

	lists := []models.TodoList{}
	for rows.Next() {
		var l models.TodoList
		if err := rows.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("could not scan todo list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return lists, nil
}

func (r *TodoListRepository) FindByID(ctx context.Context, id int) (*models.TodoList, error) {
	var l models.TodoList
	err := r.DB.QueryRowContext(ctx, "SELECT "+todoListColumns+" FROM todo_lists WHERE id = ?", id).
		Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTodoListNotFound
		}
		return nil, fmt.Errorf("could not query todo list: %w", err)
	}
	return &l, nil
}

// Rename はリスト名を変更し、更新後の行を返します。
func (r *TodoListRepository) Rename(ctx context.Context, id int, name string) (*models.TodoList, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE todo_lists SET name = ?, updated_at = ? WHERE id = ?", name, now(), id)
	if err != nil {
		return nil, fmt.Errorf("could not rename todo list: %w", err)
	}
	if err := expectRow(res, ErrTodoListNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete はリストを削除します。所属するTodoは外部キーのカスケードで削除されます。
func (r *TodoListRepository) Delete(ctx context.Context, id int) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM todo_lists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete todo list: %w", err)
	}
	return expectRow(res, ErrTodoListNotFound)
}
