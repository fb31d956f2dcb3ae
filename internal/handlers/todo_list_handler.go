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

// TodoListHandler はTodoリスト関連のハンドラーを管理します。
type TodoListHandler struct {
	listService *services.TodoListService
	metrics     *metrics.Collector
	logger      *zap.Logger
}

func NewTodoListHandler(listService *services.TodoListService, m *metrics.Collector, logger *zap.Logger) *TodoListHandler {
	return &TodoListHandler{listService: listService, metrics: m, logger: logger}
}

// GetListsHandler はログインユーザーのリスト一覧を返します。
func (h *TodoListHandler) GetListsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	lists, err := h.listService.GetLists(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to fetch todo lists", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch todo lists"})
		return
	}
	c.JSON(http.StatusOK, lists)
}

// CreateListHandler はリストを作成します。
func (h *TodoListHandler) CreateListHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.TodoListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	list, err := h.listService.CreateList(c.Request.Context(), userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrBlankName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "List name must not be blank"})
			return
		}
		h.logger.Error("failed to create todo list", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create todo list"})
		return
	}
	h.metrics.ListCreated()
	c.JSON(http.StatusOK, list)
}

// UpdateListHandler はリスト名を変更します。
func (h *TodoListHandler) UpdateListHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.TodoListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	list, err := h.listService.RenameList(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "List name must not be blank"})
		case errors.Is(err, repositories.ErrTodoListNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo list not found"})
		default:
			h.logger.Error("failed to update todo list", zap.Int("list_id", id), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update todo list"})
		}
		return
	}
	c.JSON(http.StatusOK, list)
}

// DeleteListHandler はリストを削除します。リスト内のTodoも削除されます。
func (h *TodoListHandler) DeleteListHandler(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.listService.DeleteList(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, repositories.ErrTodoListNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Todo list not found"})
			return
		}
		h.logger.Error("failed to delete todo list", zap.Int("list_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete todo list"})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
