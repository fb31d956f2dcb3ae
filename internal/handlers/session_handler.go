package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nextday/internal/models"
	"nextday/internal/repositories"
	"nextday/internal/services"
)

// SessionHandler はセキュリティ画面のセッション一覧と終了を扱います。
type SessionHandler struct {
	sessionService *services.SessionService
	logger         *zap.Logger
}

func NewSessionHandler(sessionService *services.SessionService, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, logger: logger}
}

// ListSessionsHandler は有効なセッションを新しい順で返します。
func (h *SessionHandler) ListSessionsHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), userID, currentSessionID(c))
	if err != nil {
		h.logger.Error("failed to list sessions", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sessions"})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// RevokeSessionHandler はセッションを 1 件終了します。現在のセッションも終了できます。
func (h *SessionHandler) RevokeSessionHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	err := h.sessionService.Revoke(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
			return
		}
		h.logger.Error("failed to revoke session", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke session"})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}

// LogoutHandler はリクエストのセッションを終了します。
func (h *SessionHandler) LogoutHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	err := h.sessionService.Revoke(c.Request.Context(), userID, currentSessionID(c))
	if err != nil && !errors.Is(err, repositories.ErrSessionNotFound) {
		h.logger.Error("failed to end session", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true})
}
