// Package database はデータベース接続とスキーマを管理します。
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"nextday/internal/config"
)

// Open は指定ドライバーで接続を開き、疎通を確認します。
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// SQLite は書き込みが直列なので接続を1本に絞る
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// InitDB は設定からデータベース接続を初期化し、スキーマを作成します。
func InitDB(cfg *config.Server, logger *zap.Logger) (*sql.DB, error) {
	db, err := Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := Migrate(db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}
	logger.Info("connected to database", zap.String("driver", cfg.DBDriver))
	return db, nil
}
