package services

import (
	"context"
	"errors"
	"strings"

	"nextday/internal/models"
	"nextday/internal/repositories"
)

var (
	ErrBlankName    = errors.New("name must not be blank")
	ErrBlankContent = errors.New("content must not be blank")
)

// TodoListService はTodoリストのビジネスロジックを扱います。
// 他ユーザーのリストは存在しないものとして扱います。
type TodoListService struct {
	listRepo *repositories.TodoListRepository
}

func NewTodoListService(listRepo *repositories.TodoListRepository) *TodoListService {
	return &TodoListService{listRepo: listRepo}
}

// GetLists はユーザーのリストを作成順で返します。
func (s *TodoListService) GetLists(ctx context.Context, userID int) ([]models.TodoList, error) {
	return s.listRepo.FindByOwner(ctx, userID)
}

func (s *TodoListService) CreateList(ctx context.Context, userID int, name string) (*models.TodoList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	return s.listRepo.Create(ctx, userID, name)
}

// GetOwnedList は所有者を確認してリストを返します。
func (s *TodoListService) GetOwnedList(ctx context.Context, userID, id int) (*models.TodoList, error) {
	l, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != userID {
		return nil, repositories.ErrTodoListNotFound // アクセス拒否
	}
	return l, nil
}

func (s *TodoListService) RenameList(ctx context.Context, userID, id int, name string) (*models.TodoList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrBlankName
	}
	if _, err := s.GetOwnedList(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.listRepo.Rename(ctx, id, name)
}

// DeleteList はリストと、カスケードでその中のTodoを削除します。
func (s *TodoListService) DeleteList(ctx context.Context, userID, id int) error {
	if _, err := s.GetOwnedList(ctx, userID, id); err != nil {
		return err
	}
	return s.listRepo.Delete(ctx, id)
}
