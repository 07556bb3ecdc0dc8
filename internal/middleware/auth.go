// Package middleware содержит HTTP middleware сервиса маркетплейса.
package middleware

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mmeshcher/marketplace-system/internal/model"
)

type contextKey string

const userKey contextKey = "user"

const tokenTTL = 7 * 24 * time.Hour

// UserResolver разрешает идентификатор из токена в запись пользователя.
type UserResolver interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthMiddleware проверяет bearer-токен запроса и разрешает его в пользователя.
// Токен действителен 7 дней; токен удалённого пользователя отклоняется.
type AuthMiddleware struct {
	secretKey []byte
	users     UserResolver
}

// NewAuthMiddleware создаёт AuthMiddleware с указанным секретным ключом.
// При пустом секрете генерируется случайный ключ: выданные токены перестанут
// действовать после перезапуска процесса.
func NewAuthMiddleware(secret string, users UserResolver) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
		users:     users,
	}
}

type tokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken выпускает подписанный токен для указанного пользователя.
func (a *AuthMiddleware) IssueToken(userID int64) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secretKey)
}

// Middleware проверяет заголовок Authorization и добавляет пользователя
// (без хеша пароля) в контекст запроса.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := r.Header.Get("Authorization")
		if !strings.HasPrefix(authorization, "Bearer ") {
			writeUnauthorized(w, "authorization token required")
			return
		}

		tokenString := strings.TrimPrefix(authorization, "Bearer ")

		userID, ok := a.parseToken(tokenString)
		if !ok {
			writeUnauthorized(w, "request not authorized")
			return
		}

		user, err := a.users.GetUserByID(r.Context(), userID)
		if err != nil {
			writeUnauthorized(w, "request not authorized")
			return
		}
		user.PasswordHash = nil

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *AuthMiddleware) parseToken(tokenString string) (int64, bool) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.secretKey, nil
	})
	if err != nil || !token.Valid {
		return 0, false
	}

	return claims.UserID, true
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// GetUserFromContext извлекает пользователя текущего запроса из контекста.
func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok
}
