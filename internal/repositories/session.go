package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nextday/internal/models"
)

// SessionRepository は sessions テーブルを操作します。
type SessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

const sessionColumns = "id, user_id, user_agent, ip_address, created_at, expires_at"

func scanSession(row interface{ Scan(...any) error }) (*models.Session, error) {
	var s models.Session
	if err := row.Scan(&s.ID, &s.UserID, &s.UserAgent, &s.IPAddress, &s.CreatedAt, &s.ExpiresAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SessionRepository) Create(ctx context.Context, s *models.Session) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		s.ID, s.UserID, s.UserAgent, s.IPAddress, s.CreatedAt.UTC(), s.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("could not insert session: %w", err)
	}
	return nil
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	row := r.DB.QueryRowContext(ctx, "SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)
	s, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("could not query session: %w", err)
	}
	return s, nil
}

// FindActiveByUser は期限内のセッションを新しい順で返します。
func (r *SessionRepository) FindActiveByUser(ctx context.Context, userID int, at time.Time) ([]models.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id = ? AND expires_at > ? ORDER BY created_at DESC, id",
		userID, at.UTC())
	if err != nil {
		return nil, fmt.Errorf("could not query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return sessions, nil
}

// Delete はユーザーのセッションを 1 件削除します。他人のセッションは見つからない扱いです。
func (r *SessionRepository) Delete(ctx context.Context, userID int, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("could not delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get affected rows: %w", err)
	}
	if n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// DeleteOthers は keepID 以外のユーザーのセッションを削除し、削除件数を返します。
func (r *SessionRepository) DeleteOthers(ctx context.Context, userID int, keepID string) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ? AND id <> ?", userID, keepID)
	if err != nil {
		return 0, fmt.Errorf("could not delete sessions: %w", err)
	}
	return res.RowsAffected()
}

// CleanupExpired は期限切れのセッションを削除し、削除件数を返します。
func (r *SessionRepository) CleanupExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now())
	if err != nil {
		return 0, fmt.Errorf("could not cleanup sessions: %w", err)
	}
	return res.RowsAffected()
}
