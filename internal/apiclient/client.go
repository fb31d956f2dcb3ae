// Package apiclient は NextDay REST API の HTTP クライアントです。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"nextday/internal/models"
)

// UserAgent はサーバーのセッション一覧に表示されるクライアント名です。
const UserAgent = "nextday-cli"

// Client は Bearer トークン付きで API を呼び出します。
// 通信はサーキットブレーカーを通るので、サーバーが落ちている間はすぐに失敗します。
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// New は新しい Client を作成します。token は空でもかまいません (ログイン・登録用)。
func New(baseURL, token string, logger *zap.Logger) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nextday-api",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return !serverFault(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Debug("circuit breaker state changed", zap.String("name", name), zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})
	return c
}

// SetToken はログイン後のトークンを設定します。
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &RequestError{Method: method, Path: path, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = b
	}
	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	return err
}

// roundTrip は 1 回のリクエストを送ります。body は JSON エンコード済みで、nil なら本文を付けません。
func (c *Client) roundTrip(ctx context.Context, method, path string, body []byte, out any) error {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return &RequestError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request error", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return &RequestError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", resp.Header.Get("X-Request-ID")),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&apiErr)
		return &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: apiErr.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Method: method, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// Register は新しいアカウントを作成します。
func (c *Client) Register(ctx context.Context, req models.UserRegisterRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPost, "/api/register", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login は認証してトークンを返します。成功するとこの Client もそのトークンを使います。
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var res models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/login", models.UserLoginRequest{Email: email, Password: password}, &res); err != nil {
		return nil, err
	}
	c.SetToken(res.Token)
	return &res, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req models.UpdateProfileRequest) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodPut, "/api/profile", req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ChangePassword はパスワードを変更します。req.RevokeOtherSessions が true の場合に終了した
// 他のセッションの数を返します。
func (c *Client) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (int64, error) {
	var res models.ChangePasswordResponse
	if err := c.do(ctx, http.MethodPut, "/api/profile/password", req, &res); err != nil {
		return 0, err
	}
	return res.RevokedSessions, nil
}

// ListSessions は有効なセッションを新しい順で返します。
func (c *Client) ListSessions(ctx context.Context) ([]models.Session, error) {
	var sessions []models.Session
	if err := c.do(ctx, http.MethodGet, "/api/profile/sessions", nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) RevokeSession(ctx context.Context, id string) error {
	return c.deleteResource(ctx, "/api/profile/sessions/"+url.PathEscape(id))
}

// Logout はこのクライアントのセッションをサーバー側で終了します。
func (c *Client) Logout(ctx context.Context) error {
	var res models.SuccessResponse
	return c.do(ctx, http.MethodPost, "/api/logout", nil, &res)
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/forgot-password", models.UserForgotPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, http.MethodPost, "/api/reset-password/"+url.PathEscape(token), models.UserResetPasswordRequest{Password: password}, nil)
}

func (c *Client) ListTodoLists(ctx context.Context) ([]models.TodoList, error) {
	var lists []models.TodoList
	if err := c.do(ctx, http.MethodGet, "/api/todo-lists", nil, &lists); err != nil {
		return nil, err
	}
	return lists, nil
}

func (c *Client) CreateTodoList(ctx context.Context, name string) (*models.TodoList, error) {
	var l models.TodoList
	if err := c.do(ctx, http.MethodPost, "/api/todo-lists", models.TodoListRequest{Name: name}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) RenameTodoList(ctx context.Context, id int, name string) (*models.TodoList, error) {
	var l models.TodoList
	if err := c.do(ctx, http.MethodPut, "/api/todo-lists/"+strconv.Itoa(id), models.TodoListRequest{Name: name}, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

func (c *Client) DeleteTodoList(ctx context.Context, id int) error {
	return c.deleteResource(ctx, "/api/todo-lists/"+strconv.Itoa(id))
}

// ListTodos はユーザーの全リストのTodoを返します。リストでの絞り込みは呼び出し側で行います。
func (c *Client) ListTodos(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := c.do(ctx, http.MethodGet, "/api/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, listID int, content string) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodPost, "/api/todos", models.CreateTodoRequest{Content: content, ListID: listID}, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id int, patch models.UpdateTodoRequest) (*models.Todo, error) {
	var t models.Todo
	if err := c.do(ctx, http.MethodPatch, "/api/todos/"+strconv.Itoa(id), patch, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id int) error {
	return c.deleteResource(ctx, "/api/todos/"+strconv.Itoa(id))
}

// deleteResource は DELETE を送り、{"success": true} でなければ失敗とします。
func (c *Client) deleteResource(ctx context.Context, path string) error {
	var res models.SuccessResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, &res); err != nil {
		return err
	}
	if !res.Success {
		return &RequestError{Method: http.MethodDelete, Path: path, StatusCode: http.StatusOK, Message: "success flag not set"}
	}
	return nil
}
