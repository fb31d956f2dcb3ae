// Package testutil はハンドラーテスト用のデータベースとルーターを用意します。
package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nextday/internal/config"
	"nextday/internal/database"
	"nextday/internal/metrics"
	"nextday/internal/models"
	"nextday/internal/repositories"
	"nextday/internal/routes"
)

const (
	NormalUserEmail    = "normal_user@example.com"
	NormalUserPassword = "password123"
	OtherUserEmail     = "other_user@example.com"
	OtherUserPassword  = "otherpass123"
)

// MailRecorder は送信されたリセットメールを記録するテスト用 Mailer です。
type MailRecorder struct {
	mu   sync.Mutex
	Sent []SentMail
}

type SentMail struct {
	To  string
	URL string
}

func (m *MailRecorder) SendPasswordReset(_ context.Context, to, resetURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, URL: resetURL})
	return nil
}

// Last は最後に送信されたメールを返します。
func (m *MailRecorder) Last() (SentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Sent) == 0 {
		return SentMail{}, false
	}
	return m.Sent[len(m.Sent)-1], true
}

// TestConfig はテスト用のサーバー設定です。
func TestConfig() *config.Server {
	return &config.Server{
		Env:         "test",
		Port:        "0",
		DBDriver:    "sqlite",
		DBPath:      ":memory:",
		JWTSecret:   "test-secret-key-0123456789",
		JWTTTL:      time.Hour,
		FrontendURL: "http://localhost:3000",
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

// SetupTestDB はインメモリSQLiteにスキーマを作成し、テストユーザーを投入してルーターを返します。
// ユーザーは normal_user (id=1) と other_user (id=2) の2人です。
func SetupTestDB(t *testing.T) (*sql.DB, *gin.Engine, *repositories.TodoRepository, *repositories.UserRepository) {
	db, r, _ := SetupTestServer(t)
	return db, r, repositories.NewTodoRepository(db), repositories.NewUserRepository(db)
}

// SetupTestServer は SetupTestDB と同じ環境を作り、メールの記録も返します。
func SetupTestServer(t *testing.T) (*sql.DB, *gin.Engine, *MailRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	require.NoError(t, err, "Failed to open test database")
	require.NoError(t, database.Migrate(db, "sqlite"), "Failed to migrate test database")

	userRepo := repositories.NewUserRepository(db)
	CreateTestUser(t, userRepo, "normal_user", NormalUserEmail, NormalUserPassword)
	CreateTestUser(t, userRepo, "other_user", OtherUserEmail, OtherUserPassword)

	mailer := &MailRecorder{}
	r := routes.SetupRouter(db, TestConfig(), zap.NewNop(), metrics.NewCollector("nextday_test"), mailer)
	return db, r, mailer
}

func CreateTestUser(t *testing.T, userRepo *repositories.UserRepository, name, email, password string) *models.User {
	t.Helper()
	hashedPassword, err := repositories.HashPassword(password)
	require.NoError(t, err)

	createdUser, err := userRepo.Create(context.Background(), &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
	})
	require.NoError(t, err)
	require.NotZero(t, createdUser.ID)
	return createdUser
}

// DoJSON は JSON ボディとトークン付きでリクエストを送り、レスポンスを返します。
func DoJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	req, err := http.NewRequest(method, path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// CreateTestList はAPI経由でリストを作成します。
func CreateTestList(t *testing.T, router *gin.Engine, token, name string) *models.TodoList {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/todo-lists", token, map[string]string{"name": name})
	require.Equal(t, http.StatusOK, resp.Code, "リスト作成に失敗しました: %s", resp.Body.String())

	var list models.TodoList
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	return &list
}

// CreateTestTodo はテスト用のTODOをAPI経由で作成します。
func CreateTestTodo(t *testing.T, router *gin.Engine, token string, listID int, content string) *models.Todo {
	t.Helper()
	resp := DoJSON(t, router, http.MethodPost, "/api/todos", token, map[string]any{"content": content, "listId": listID})
	require.Equal(t, http.StatusOK, resp.Code, "TODO作成に失敗しました: %s", resp.Body.String())

	var createdTodo models.Todo
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &createdTodo))
	return &createdTodo
}

func LoginAndGetToken(t *testing.T, router *gin.Engine, email, password string) (string, error) {
	resp := DoJSON(t, router, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if resp.Code != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d: %s", resp.Code, resp.Body.String())
	}

	var loginRes models.LoginResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &loginRes); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if loginRes.Token == "" {
		return "", errors.New("token not found in login response")
	}
	return loginRes.Token, nil
}
