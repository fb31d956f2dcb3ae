// Package todo はTodoリストの一覧 (Manager) と、選択中リストのTodo (List) を管理します。
// どちらもサーバーの応答を待ってからローカル状態を更新し、楽観的更新は行いません。
// 単一のイベントループから使う前提で、並行呼び出しには対応していません。
package todo

import (
	"context"
	"errors"
	"strings"

	"nextday/internal/models"
)

var (
	ErrBlankName       = errors.New("list name must not be blank")
	ErrBlankContent    = errors.New("todo content must not be blank")
	ErrTodoCompleted   = errors.New("todo is already completed")
	ErrNoPendingDelete = errors.New("no list is pending deletion")
	ErrUnknownList     = errors.New("unknown list")
	ErrUnknownTodo     = errors.New("unknown todo")
	ErrNotEditing      = errors.New("no todo is being edited")
)

// ListAPI はリスト操作のエンドポイントです。apiclient.Client が実装します。
type ListAPI interface {
	ListTodoLists(ctx context.Context) ([]models.TodoList, error)
	CreateTodoList(ctx context.Context, name string) (*models.TodoList, error)
	RenameTodoList(ctx context.Context, id int, name string) (*models.TodoList, error)
	DeleteTodoList(ctx context.Context, id int) error
}

// TodoAPI はTodo操作のエンドポイントです。apiclient.Client が実装します。
type TodoAPI interface {
	ListTodos(ctx context.Context) ([]models.Todo, error)
	CreateTodo(ctx context.Context, listID int, content string) (*models.Todo, error)
	UpdateTodo(ctx context.Context, id int, patch models.UpdateTodoRequest) (*models.Todo, error)
	DeleteTodo(ctx context.Context, id int) error
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
