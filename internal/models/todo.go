// Package modelsはTodoリストとTodoを定義します。
package models

import (
	"time"
)

// TodoList はユーザーが所有するTodoリストです。削除するとリスト内のTodoもすべて削除されます。
type TodoList struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	OwnerID   int       `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Todo struct {
	ID        int       `json:"id"`        // 主キー
	Content   string    `json:"content"`   // タスクの内容
	Completed bool      `json:"completed"` // 完了状態
	ListID    int       `json:"listId"`    // 所属するリスト
	OwnerID   int       `json:"ownerId"`   // 所有ユーザー
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoListRequest はリスト作成・名前変更のリクエストです。
type TodoListRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateTodoRequest はTodo作成のリクエストです。
type CreateTodoRequest struct {
	Content string `json:"content" binding:"required"`
	ListID  int    `json:"listId" binding:"required,gt=0"`
}

// UpdateTodoRequest は部分更新 (PATCH) のリクエストです。nil のフィールドは変更しません。
type UpdateTodoRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Content   *string `json:"content,omitempty"`
}

// SuccessResponse は削除系エンドポイントのレスポンスです。
type SuccessResponse struct {
	Success bool `json:"success"`
}
