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

// UserHandler はユーザー関連のハンドラーを管理します。
type UserHandler struct {
	userService    *services.UserService
	sessionService *services.SessionService
	logger         *zap.Logger
}

// NewUserHandler は新しいUserHandlerを作成します。
func NewUserHandler(userService *services.UserService, sessionService *services.SessionService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, sessionService: sessionService, logger: logger}
}

// RegisterHandler はユーザー登録を処理します。
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req models.UserRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.userService.RegisterUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
			return
		}
		h.logger.Error("failed to register user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// LoginHandler はユーザーログインを処理し、新しいセッションのトークンとユーザーを返します。
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req models.UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.userService.AuthenticateUser(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		h.logger.Error("failed to authenticate user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to login"})
		return
	}

	token, err := h.sessionService.Start(c.Request.Context(), user, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		h.logger.Error("failed to start session", zap.Int("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// ProfileHandler はログイン中のユーザー情報を返します。
func (h *UserHandler) ProfileHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("failed to fetch profile", zap.Int("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler は名前とメールアドレスを更新します。
func (h *UserHandler) UpdateProfileHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBlankName):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be blank"})
		case errors.Is(err, repositories.ErrDuplicateEmail):
			c.JSON(http.StatusConflict, gin.H{"error": "Email already exists"})
		case errors.Is(err, repositories.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("failed to update profile", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		}
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangePasswordHandler は現在のパスワードを確認してパスワードを変更します。
// revokeOtherSessions が指定されていれば他のセッションも終了します。
func (h *UserHandler) ChangePasswordHandler(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.userService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect"})
		case errors.Is(err, repositories.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		default:
			h.logger.Error("failed to change password", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to change password"})
		}
		return
	}
	res := models.ChangePasswordResponse{Message: "Password changed successfully"}
	if req.RevokeOtherSessions {
		n, err := h.sessionService.RevokeOthers(c.Request.Context(), userID, currentSessionID(c))
		if err != nil {
			// パスワードは変更済み
			h.logger.Error("failed to revoke other sessions", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Password changed but failed to revoke other sessions"})
			return
		}
		res.RevokedSessions = n
	}
	c.JSON(http.StatusOK, res)
}

// ForgotPasswordHandler はパスワードリセットリクエストを処理します。
func (h *UserHandler) ForgotPasswordHandler(c *gin.Context) {
	var req models.UserForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.userService.ForgotPasswordUser(c.Request.Context(), req.Email); err != nil {
		h.logger.Error("failed to process password reset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process password reset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// ResetPasswordHandler はトークンを使ってパスワードを再設定します。
func (h *UserHandler) ResetPasswordHandler(c *gin.Context) {
	var req models.UserResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	err := h.userService.ResetPasswordUser(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidResetToken),
			errors.Is(err, services.ErrTokenExpired),
			errors.Is(err, services.ErrTokenUsed):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("failed to reset password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}
