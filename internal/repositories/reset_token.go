package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nextday/internal/models"
)

type ResetTokenRepository interface {
	Save(ctx context.Context, token *models.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id uint) error
	CleanupExpired(ctx context.Context) (int64, error)
}

type SQLResetTokenRepo struct {
	DB *sql.DB
}

func NewSQLResetTokenRepo(db *sql.DB) *SQLResetTokenRepo {
	return &SQLResetTokenRepo{DB: db}
}

func (r *SQLResetTokenRepo) Save(ctx context.Context, t *models.PasswordResetToken) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token, expires_at, created_at) VALUES (?, ?, ?, ?)",
		t.UserID, t.Token, t.ExpiresAt.UTC(), now(),
	)
	if err != nil {
		return fmt.Errorf("could not save reset token: %w", err)
	}
	return nil
}

func (r *SQLResetTokenRepo) FindByToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	query := "SELECT id, user_id, token, expires_at, used_at FROM password_reset_tokens WHERE token = ?"

	var pr models.PasswordResetToken
	var usedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, token).Scan(&pr.ID, &pr.UserID, &pr.Token, &pr.ExpiresAt, &usedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, fmt.Errorf("could not query reset token: %w", err)
	}
	if usedAt.Valid {
		pr.UsedAt = &usedAt.Time
	}
	return &pr, nil
}

// CleanupExpired は使用済みまたは期限切れのトークンを削除し、削除件数を返します。
func (r *SQLResetTokenRepo) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE used_at IS NOT NULL OR expires_at < ?", now())
	if err != nil {
		return 0, fmt.Errorf("could not cleanup reset tokens: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLResetTokenRepo) MarkUsed(ctx context.Context, id uint) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE password_reset_tokens SET used_at = ? WHERE id = ?", now(), id)
	return err
}
