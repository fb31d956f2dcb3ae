package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt" // パスワードのハッシュ化用

	"nextday/internal/models"
)

// UserRepository はデータベース操作を行うための構造体です。
type UserRepository struct {
	DB *sql.DB
}

// NewUserRepository は新しいUserRepositoryインスタンスを作成します。
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// HashPassword は与えられたパスワードをbcryptでハッシュ化します。
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedPassword), nil
}

// VerifyPassword はハッシュ化されたパスワードと平文のパスワードを比較します。
func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// Create は新しいユーザーをデータベースに挿入します。
func (r *UserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	ts := now()
	query := "INSERT INTO users (name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"
	result, err := r.DB.ExecContext(ctx, query, u.Name, u.Email, u.PasswordHash, ts, ts)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("could not get last insert ID: %w", err)
	}
	u.ID = int(id)
	u.CreatedAt = ts
	u.UpdatedAt = ts
	return u, nil
}

const userColumns = "id, name, email, password_hash, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not query user: %w", err)
	}
	return &u, nil
}

// FindByEmail はメールアドレスでユーザーを検索します。
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
}

// FindByID はIDでユーザーを検索します。
func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// UpdateProfile は名前とメールアドレスを更新します。
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, name, email string) (*models.User, error) {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?", name, email, now(), id)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("could not update user: %w", err)
	}
	if err := expectRow(res, ErrUserNotFound); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// UpdatePassword はユーザーのパスワードを更新します。
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, newHash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?", newHash, now(), userID)
	if err != nil {
		return fmt.Errorf("could not update password: %w", err)
	}
	return expectRow(res, ErrUserNotFound)
}

// expectRow は更新・削除で1行も影響しなかった場合に notFound を返します。
func expectRow(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
