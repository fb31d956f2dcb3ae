package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"nextday/internal/models"
	"nextday/internal/repositories"
)

// ErrSessionRevoked はトークンのセッションが削除済み・期限切れであることを表します。
var ErrSessionRevoked = errors.New("session revoked")

const maxUserAgentLen = 512

// SessionService はログインセッションを管理します。
// トークンは jti でセッション行を指し、行が消えたトークンは使えなくなります。
type SessionService struct {
	repo *repositories.SessionRepository
	jwt  *JWTService
}

func NewSessionService(repo *repositories.SessionRepository, jwt *JWTService) *SessionService {
	return &SessionService{repo: repo, jwt: jwt}
}

// Start はセッションを作成し、そのセッションのトークンを返します。
func (s *SessionService) Start(ctx context.Context, user *models.User, userAgent, ipAddress string) (string, error) {
	if len(userAgent) > maxUserAgentLen {
		userAgent = userAgent[:maxUserAgentLen]
	}
	createdAt := time.Now().UTC().Truncate(time.Second)
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(s.jwt.TTL()),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	token, err := s.jwt.GenerateToken(user.ID, user.Email, sess.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// Verify はトークンのセッションが残っていて、ユーザーが一致することを確認します。
func (s *SessionService) Verify(ctx context.Context, claims *models.JWTClaims) error {
	sess, err := s.repo.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionRevoked
		}
		return err
	}
	if sess.UserID != int(claims.UserID) || !time.Now().Before(sess.ExpiresAt) {
		return ErrSessionRevoked
	}
	return nil
}

// List は期限内のセッションを返します。currentID のセッションには Current が付きます。
func (s *SessionService) List(ctx context.Context, userID int, currentID string) ([]models.Session, error) {
	sessions, err := s.repo.FindActiveByUser(ctx, userID, time.Now())
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		sessions[i].Current = sessions[i].ID == currentID
	}
	return sessions, nil
}

// Revoke はユーザーのセッションを 1 件終了します。
func (s *SessionService) Revoke(ctx context.Context, userID int, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// RevokeOthers は currentID 以外のセッションを終了し、終了した件数を返します。
func (s *SessionService) RevokeOthers(ctx context.Context, userID int, currentID string) (int64, error) {
	return s.repo.DeleteOthers(ctx, userID, currentID)
}

// CleanupExpired は期限切れのセッションを削除します。
func (s *SessionService) CleanupExpired(ctx context.Context) (int64, error) {
	return s.repo.CleanupExpired(ctx)
}
