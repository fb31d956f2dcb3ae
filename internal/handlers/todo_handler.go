package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nextday/internal/metrics"
	"nextday/internal/models"
	"nextday/internal/repositories"
	"nextday/internal/services"
)

// TodoHandler はTodo関連のハンドラーを管理します。
type TodoHandler struct {
	todoService *services.TodoService
	metrics     *metrics.Collector
	logger      *zap.Logger
}

// NewTodoHandler は新しいTodoHandlerを作成します。
func NewTodoHandler(todoService *services.TodoService, m *metrics.Collector, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todoService: todoService, metrics: m, logger: logger}
}

// GetTodosHandler はユーザーの全リストのTodoを返します。
func (h *TodoHandler) GetTodosHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	todos, err := h.todoService.GetTodos(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to fetch todos", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todos"})
		return
	}
	c.JSON(http.StatusOK, todos)
}

// CreateTodoHandler は新しいTodoを作成します。
func (h *TodoHandler) CreateTodoHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	createdTodo, err := h.todoService.CreateTodo(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Todo content must not be blank"})
		case errors.Is(err, repositories.ErrTodoListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo list not found"})
		default:
			h.logger.Error("failed to create todo", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo"})
		}
		return
	}
	h.metrics.TodoCreated()
	c.JSON(http.StatusOK, createdTodo)
}

// UpdateTodoHandler はTodoを部分更新します。
func (h *TodoHandler) UpdateTodoHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var patch models.UpdateTodoRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	updatedTodo, err := h.todoService.UpdateTodo(c.Request.Context(), userID, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankContent):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Todo content must not be blank"})
		case errors.Is(err, repositories.ErrTodoNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
		default:
			h.logger.Error("failed to update todo", zap.Int("todo_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo"})
		}
		return
	}
	c.JSON(http.StatusOK, updatedTodo)
}

// DeleteTodoHandler はTodoを削除します。
func (h *TodoHandler) DeleteTodoHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.todoService.DeleteTodo(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repositories.ErrTodoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo not found"})
			return
		}
		h.logger.Error("failed to delete todo", zap.Int("todo_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo"})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
