package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"nextday/internal/models"
	"nextday/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetToken  = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenUsed          = errors.New("token already used")
)

// リセットトークンの有効期間
const resetTokenTTL = time.Hour

// UserService はユーザー関連のビジネスロジックを扱います。
type UserService struct {
	userRepo       *repositories.UserRepository
	resetTokenRepo repositories.ResetTokenRepository
	mailer         Mailer
	frontendURL    string
	logger         *zap.Logger
}

// NewUserService は新しいUserServiceを作成します。
func NewUserService(userRepo *repositories.UserRepository, resetTokenRepo repositories.ResetTokenRepository, mailer Mailer, frontendURL string, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:       userRepo,
		resetTokenRepo: resetTokenRepo,
		mailer:         mailer,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
		logger:         logger,
	}
}

// RegisterUser はユーザーを登録します。
func (s *UserService) RegisterUser(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	hashedPassword, err := repositories.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	newUser := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
	}
	createdUser, err := s.userRepo.Create(ctx, newUser)
	if err != nil {
		return nil, err
	}
	createdUser.PasswordHash = "" // レスポンスにパスワードを含めない
	return createdUser, nil
}

// AuthenticateUser はユーザーを認証し、成功したらユーザーを返します。
// 存在しないメールアドレスとパスワード不一致は区別しません。
func (s *UserService) AuthenticateUser(ctx context.Context, req models.UserLoginRequest) (*models.User, error) {
	foundUser, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := repositories.VerifyPassword(foundUser.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	foundUser.PasswordHash = ""
	return foundUser, nil
}

// GetProfile はログイン中のユーザーを返します。
func (s *UserService) GetProfile(ctx context.Context, userID int) (*models.User, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// UpdateProfile は名前とメールアドレスを更新します。
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req models.UpdateProfileRequest) (*models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBlankName
	}
	u, err := s.userRepo.UpdateProfile(ctx, userID, name, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

// ChangePassword は現在のパスワードを確認してから新しいパスワードに変更します。
func (s *UserService) ChangePassword(ctx context.Context, userID int, req models.ChangePasswordRequest) error {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := repositories.VerifyPassword(u.PasswordHash, req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hashedPassword, err := repositories.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

// ForgotPasswordUser はリセットトークンを発行してメールを送ります。
// メールアドレスの存在有無は呼び出し元に漏らしません。
func (s *UserService) ForgotPasswordUser(ctx context.Context, email string) error {
	// 1. ユーザーが存在するか確認
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			// メール存在しない → バレないように成功扱い
			s.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	// 2. パスワードリセット用のトークンを生成
	token, err := generateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	// 3. トークンをデータベースに保存（有効期限1時間）
	resetToken := &models.PasswordResetToken{
		UserID:    uint(user.ID),
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetTokenRepo.Save(ctx, resetToken); err != nil {
		return fmt.Errorf("failed to save reset token: %w", err)
	}

	// 4. フロントのリセットURLにトークンをセットしてメール送信
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, token)
	if err := s.mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		// 送信失敗でもレスポンスは変えない
		s.logger.Warn("failed to send reset email", zap.Int("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// generateResetToken はパスワードリセット用のランダムトークンを生成します。
func generateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// ResetPasswordUser はトークンを使ってパスワードをリセットします。トークンは一度だけ使えます。
func (s *UserService) ResetPasswordUser(ctx context.Context, token, newPassword string) error {
	resetToken, err := s.resetTokenRepo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if resetToken.UsedAt != nil {
		return ErrTokenUsed
	}
	if time.Now().After(resetToken.ExpiresAt) {
		return ErrTokenExpired
	}

	hashedPassword, err := repositories.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, int(resetToken.UserID), hashedPassword); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.resetTokenRepo.MarkUsed(ctx, resetToken.ID); err != nil {
		// パスワードは更新済みなので失敗しても続行
		s.logger.Warn("failed to mark reset token as used", zap.Uint("token_id", resetToken.ID), zap.Error(err))
	}
	return nil
}

// CleanupResetTokens は期限切れ・使用済みのトークンを削除します。
func (s *UserService) CleanupResetTokens(ctx context.Context) (int64, error) {
	return s.resetTokenRepo.CleanupExpired(ctx)
}
