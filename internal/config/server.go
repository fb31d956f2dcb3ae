// Package config はサーバーとクライアントの設定を読み込みます。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Server は API サーバーの設定です。環境変数から読み込みます。
type Server struct {
	Env  string `validate:"oneof=development production test"`
	Port string `validate:"required,numeric"`

	DBDriver string `validate:"oneof=mysql sqlite"`
	DBUser   string `validate:"required_if=DBDriver mysql"`
	DBPass   string
	DBHost   string `validate:"required_if=DBDriver mysql"`
	DBPort   string `validate:"required_if=DBDriver mysql"`
	DBName   string `validate:"required_if=DBDriver mysql"`
	DBPath   string `validate:"required_if=DBDriver sqlite"`

	JWTSecret string        `validate:"required,min=16"`
	JWTTTL    time.Duration `validate:"gt=0"`

	FrontendURL string   `validate:"required,url"`
	CORSOrigins []string `validate:"min=1,dive,required"`

	SMTP SMTP
}

// SMTP はパスワードリセットメールの送信設定です。Host が空ならメールは送信せずログに出します。
type SMTP struct {
	Host     string
	Port     string `validate:"required_with=Host"`
	User     string
	Password string
	From     string `validate:"required_with=Host"`
}

// LoadServer は .env ファイル (存在すれば) と環境変数から設定を読み込み、検証します。
func LoadServer(envFiles ...string) (*Server, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	ttl, err := time.ParseDuration(getenv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}

	cfg := &Server{
		Env:         getenv("APP_ENV", "production"),
		Port:        getenv("PORT", "8080"),
		DBDriver:    getenv("DB_DRIVER", "mysql"),
		DBUser:      os.Getenv("DB_USER"),
		DBPass:      os.Getenv("DB_PASS"),
		DBHost:      os.Getenv("DB_HOST"),
		DBPort:      getenv("DB_PORT", "3306"),
		DBName:      os.Getenv("DB_NAME"),
		DBPath:      getenv("DB_PATH", "nextday.db"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		JWTTTL:      ttl,
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:3000"),
		CORSOrigins: splitList(getenv("CORS_ORIGINS", "http://localhost:3000")),
		SMTP: SMTP{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getenv("SMTP_PORT", "2525"),
			User:     os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "no-reply@nextday.local"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate は設定値を検証します。
func (s *Server) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid server config: %w", err)
	}
	return nil
}

// DSN は database/sql 用の接続文字列を返します。
func (s *Server) DSN() string {
	if s.DBDriver == "sqlite" {
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", s.DBPath)
	}
	// 例: user:pass@tcp(db:3306)/dbname?parseTime=true&clientFoundRows=true
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&clientFoundRows=true", s.DBUser, s.DBPass, s.DBHost, s.DBPort, s.DBName)
}

// Addr は待ち受けアドレスを返します。
func (s *Server) Addr() string {
	return ":" + s.Port
}

// IsDevelopment は開発モードかどうかを返します。
func (s *Server) IsDevelopment() bool {
	return s.Env == "development"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
