package services

import (
	"context"
	"strings"

	"nextday/internal/models"
	"nextday/internal/repositories"
)

// TodoService はTodo関連のビジネスロジックを扱います。
type TodoService struct {
	todoRepo    *repositories.TodoRepository
	listService *TodoListService
}

// NewTodoService は新しいTodoServiceを作成します。
func NewTodoService(todoRepo *repositories.TodoRepository, listService *TodoListService) *TodoService {
	return &TodoService{todoRepo: todoRepo, listService: listService}
}

// GetTodos はユーザーの全リストのTodoを取得します。リストでの絞り込みはクライアント側で行います。
func (s *TodoService) GetTodos(ctx context.Context, userID int) ([]models.Todo, error) {
	return s.todoRepo.FindByOwner(ctx, userID)
}

// CreateTodo は自分のリストにTodoを作成します。
func (s *TodoService) CreateTodo(ctx context.Context, userID int, req models.CreateTodoRequest) (*models.Todo, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, ErrBlankContent
	}
	if _, err := s.listService.GetOwnedList(ctx, userID, req.ListID); err != nil {
		return nil, err
	}
	return s.todoRepo.Create(ctx, userID, req.ListID, content)
}

// GetTodoByID は指定IDのTodoを取得し、認可チェックを行います。
func (s *TodoService) GetTodoByID(ctx context.Context, userID, id int) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.OwnerID != userID {
		return nil, repositories.ErrTodoNotFound // アクセス拒否
	}
	return todo, nil
}

// UpdateTodo は completed と content の部分更新を行います。
func (s *TodoService) UpdateTodo(ctx context.Context, userID, id int, patch models.UpdateTodoRequest) (*models.Todo, error) {
	if patch.Content != nil {
		content := strings.TrimSpace(*patch.Content)
		if content == "" {
			return nil, ErrBlankContent
		}
		patch.Content = &content
	}
	if _, err := s.GetTodoByID(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.todoRepo.Update(ctx, id, patch)
}

// DeleteTodo はTodoを削除し、認可チェックを行います。
func (s *TodoService) DeleteTodo(ctx context.Context, userID, id int) error {
	if _, err := s.GetTodoByID(ctx, userID, id); err != nil {
		return err
	}
	return s.todoRepo.Delete(ctx, id)
}
