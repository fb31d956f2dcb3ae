package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "test.db")

	cfg, err := LoadServer()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
	assert.Contains(t, cfg.DSN(), "file:test.db")
	assert.Contains(t, cfg.DSN(), "foreign_keys(1)")
}

func TestLoadServer_MySQLRequiresHost(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := LoadServer()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DBHost")
}

func TestLoadServer_MySQLDSN(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "nextday")
	t.Setenv("CORS_ORIGINS", "http://a.example, http://b.example")

	cfg, err := LoadServer()
	require.NoError(t, err)
	assert.Equal(t, "app:secret@tcp(db:3306)/nextday?parseTime=true&clientFoundRows=true", cfg.DSN())
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.CORSOrigins)
}

func TestLoadServer_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := LoadServer()
	require.Error(t, err)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("NEXTDAY_SERVER", "")

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadClient(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultClient(), cfg)
	})

	t.Run("file values are applied", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(p, []byte("server_url: https://todo.example.com/\ndefault_minutes: 50\n"), 0o600))

		cfg, err := LoadClient(p)
		require.NoError(t, err)
		assert.Equal(t, "https://todo.example.com", cfg.ServerURL)
		assert.Equal(t, 50, cfg.DefaultMinutes)
	})

	t.Run("env overrides file", func(t *testing.T) {
		t.Setenv("NEXTDAY_SERVER", "http://127.0.0.1:9000")
		cfg, err := LoadClient(filepath.Join(t.TempDir(), "config.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000", cfg.ServerURL)
	})

	t.Run("out of range minutes are rejected", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(p, []byte("default_minutes: 90\n"), 0o600))

		_, err := LoadClient(p)
		require.Error(t, err)
	})

	t.Run("unknown theme is rejected", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(p, []byte("theme: neon\n"), 0o600))

		_, err := LoadClient(p)
		require.Error(t, err)
	})
}
