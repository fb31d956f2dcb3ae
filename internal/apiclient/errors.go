package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrRequestFailed はサーバーへのリクエストが成功しなかったことを表します。
	// ステータスコードや通信エラーの種類は区別しません。
	ErrRequestFailed = errors.New("request failed")
	// ErrUnauthenticated はセッションが無い・切れていることを表します (401)。
	ErrUnauthenticated = errors.New("unauthenticated")
)

// RequestError は失敗したリクエストの詳細です。
// errors.Is(err, ErrRequestFailed) は常に true、401 の場合は ErrUnauthenticated にも一致します。
type RequestError struct {
	Method     string
	Path       string
	StatusCode int    // 通信自体が失敗した場合は 0
	Message    string // サーバーが返した {"error": ...}
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode == 0:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	}
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrRequestFailed:
		return true
	case ErrUnauthenticated:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

func (e *RequestError) Unwrap() error { return e.Err }

// serverFault はサーキットブレーカーで失敗として数えるべきエラーかどうかを返します。
// 4xx はクライアント側の問題なのでサーバーの健全性には影響させません。
func serverFault(err error) bool {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.StatusCode == 0 || reqErr.StatusCode >= http.StatusInternalServerError
	}
	return err != nil
}
