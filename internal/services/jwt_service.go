package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nextday/internal/models"
)

// JWTService はJWTトークンの生成と検証を扱います。
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService は新しいJWTServiceを作成します。ttl はトークンの有効期間です。
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{secret: []byte(secret), ttl: ttl}
}

// TTL はトークンの有効期間です。
func (s *JWTService) TTL() time.Duration { return s.ttl }

// GenerateToken はJWTトークンを生成します。sessionID は jti クレームになります。
func (s *JWTService) GenerateToken(userID int, email, sessionID string) (string, error) {
	issuedAt := time.Now()
	claims := &jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"jti":     sessionID,
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWT token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken はJWTトークンを検証し、クレームを返します。
func (s *JWTService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	userIDFloat, ok := claims["user_id"].(float64)
	if !ok {
		return nil, errors.New("invalid user_id")
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, errors.New("invalid email")
	}
	sessionID, ok := claims["jti"].(string)
	if !ok || sessionID == "" {
		return nil, errors.New("invalid session id")
	}
	return &models.JWTClaims{
		UserID:    uint(userIDFloat),
		Email:     email,
		SessionID: sessionID,
	}, nil
}
