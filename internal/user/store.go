// Package user はCLIのログインセッションを保存します。
package user

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionFileName = "session.json"
	tokenEnv        = "NEXTDAY_TOKEN"
)

// Session はログイン中のユーザーとトークンです。
type Session struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"` // "env" | "file"
	UserID    int        `json:"user_id,omitempty"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Expired はトークンの有効期限が過ぎているかを返します。期限が分からない場合は false です。
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && now.After(*s.ExpiresAt)
}

// Store はセッションを dir/session.json に保存します。
// 環境変数 NEXTDAY_TOKEN が設定されている場合はファイルより優先します。
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, sessionFileName)
}

// Load は現在のセッションを返します。ログインしていなければ nil, nil です。
func (s *Store) Load() (*Session, error) {
	if env := strings.TrimSpace(os.Getenv(tokenEnv)); env != "" {
		token := stripBearer(env)
		return &Session{Token: token, Source: "env", ExpiresAt: tokenExpiry(token)}, nil
	}

	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // not logged in
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	sess.Token = stripBearer(sess.Token)
	return &sess, nil
}

// Save はログイン結果を 0600 で書き込みます。
func (s *Store) Save(token string, userID int, email, name string) (*Session, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, errors.New("empty token")
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	sess := &Session{
		Token:     token,
		Source:    "file",
		UserID:    userID,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: tokenExpiry(token),
	}
	b, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	return sess, nil
}

// Clear はセッションファイルを削除します。無くてもエラーにしません。
func (s *Store) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// tokenExpiry はJWTの exp を署名検証なしで読み取ります。表示用なので検証はサーバーに任せます。
func tokenExpiry(token string) *time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time.UTC()
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
