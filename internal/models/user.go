package models

import "time"

// User はユーザーのデータベース構造体を表します。
// JSONタグ: クライアントとの通信用
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // JSONに出さない
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"` // 生パスワード
}

type UserLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"` // 生パスワード
}

// LoginResponse はログイン成功時のレスポンスです。
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type UserForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type UserResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// UpdateProfileRequest はプロフィール画面からの更新リクエストです。
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// ChangePasswordRequest はセキュリティ画面からのパスワード変更リクエストです。
// RevokeOtherSessions が true なら、このリクエストのセッション以外をすべて無効にします。
type ChangePasswordRequest struct {
	CurrentPassword     string `json:"currentPassword" binding:"required"`
	NewPassword         string `json:"newPassword" binding:"required,min=8"`
	RevokeOtherSessions bool   `json:"revokeOtherSessions"`
}

// ChangePasswordResponse はパスワード変更の結果です。
type ChangePasswordResponse struct {
	Message         string `json:"message"`
	RevokedSessions int64  `json:"revokedSessions"`
}

// Session はログインごとに作られるセッションです。ID はトークンの jti と同じ値です。
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"-"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	// Current はリクエストに使われたセッションかどうかです。
	Current bool `json:"current"`
}

type PasswordResetToken struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"userId"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

type JWTClaims struct {
	UserID    uint   `json:"user_id"`
	Email     string `json:"email"`
	SessionID string `json:"jti"`
}
