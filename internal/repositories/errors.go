// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrUserNotFound       = errors.New("user not found")
	ErrTodoListNotFound   = errors.New("todo list not found")
	ErrTodoNotFound       = errors.New("todo not found")
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// isDuplicateKey は一意制約違反かどうかを判定します (MySQL 1062 / SQLite UNIQUE)。
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return true
	}
	return false
}

// now は DATETIME 列の精度 (秒) に揃えた現在時刻です。
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
