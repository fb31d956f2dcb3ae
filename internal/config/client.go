package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const clientDirName = ".nextday"

// Client は nextday CLI の設定です。~/.nextday/config.yaml から読み込みます。
type Client struct {
	ServerURL      string `yaml:"server_url" validate:"required,url"`
	DefaultMinutes int    `yaml:"default_minutes" validate:"min=1,max=60"`
	// Theme は端末の配色です (dark, light, plain)。plain は色を付けません。
	Theme string `yaml:"theme" validate:"oneof=dark light plain"`
}

// DefaultClient はファイルが無い場合の設定を返します。
func DefaultClient() *Client {
	return &Client{
		ServerURL:      "http://localhost:8080",
		DefaultMinutes: 25,
		Theme:          "dark",
	}
}

// ClientDir は CLI の設定・セッションを置くディレクトリです。
func ClientDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, clientDirName), nil
}

// LoadClient は既定値、YAML ファイル、環境変数 NEXTDAY_SERVER の順に重ねて設定を作ります。
// path が空なら ClientDir()/config.yaml を使います。ファイルが無いのはエラーではありません。
func LoadClient(path string) (*Client, error) {
	cfg := DefaultClient()

	if path == "" {
		dir, err := ClientDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "config.yaml")
	}

	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if v := strings.TrimSpace(os.Getenv("NEXTDAY_SERVER")); v != "" {
		cfg.ServerURL = v
	}
	cfg.ServerURL = strings.TrimRight(cfg.ServerURL, "/")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid client config: %w", err)
	}
	return cfg, nil
}
