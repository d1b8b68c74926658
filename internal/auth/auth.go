// Package auth проверка JWT токенов и прав доступа
// Секрет подписи передается явно при создании TokenManager -
// ядро не читает глобальное состояние и переменные окружения
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims результат проверки токена: кто и от имени какого тенанта действует
type Claims struct {
	UserID   uuid.UUID
	Role     Role
	TenantID uuid.UUID
}

// TokenManager выпускает и проверяет HS256 JWT токены
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager создает менеджер токенов с явно переданным секретом
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue выпускает подписанный токен с клеймами sub, role, tenant_id
func (m *TokenManager) Issue(userID uuid.UUID, role Role, tenantID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":       userID.String(),
		"role":      string(role),
		"tenant_id": tenantID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(m.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("auth: failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse проверяет подпись и срок действия токена и возвращает клеймы
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", ErrInvalidToken, t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := mapClaims["sub"].(string)
	roleStr, _ := mapClaims["role"].(string)
	tenantStr, _ := mapClaims["tenant_id"].(string)
	if sub == "" || roleStr == "" || tenantStr == "" {
		return nil, ErrMissingClaims
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid sub", ErrMissingClaims)
	}
	role, err := ParseRole(roleStr)
	if err != nil {
		return nil, err
	}
	tenantID, err := uuid.Parse(tenantStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tenant_id", ErrMissingClaims)
	}

	return &Claims{
		UserID:   userID,
		Role:     role,
		TenantID: tenantID,
	}, nil
}

type claimsCtxKey struct{}

// WithClaims кладет клеймы в контекст запроса
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, c)
}

// ClaimsFromContext извлекает клеймы из контекста
// Возвращает nil для неаутентифицированных запросов
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsCtxKey{}).(*Claims)
	return c
}
