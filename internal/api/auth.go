package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"
)

const (
	subClaim = "sub"
	expClaim = "exp"

	bearerPrefix = "Bearer "
)

type contextKey string

const userIdKey contextKey = "user-id"

func WithUserId(ctx context.Context, userId int) context.Context {
	return context.WithValue(ctx, userIdKey, userId)
}

func UserId(ctx context.Context) (int, bool) {
	userId, ok := ctx.Value(userIdKey).(int)

	return userId, ok
}

// bearerToken extracts the token string from the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	tokenString, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	if !ok || tokenString == "" {
		return "", false
	}

	return tokenString, true
}

// issueToken creates a signed token asserting the given user id until the
// ttl elapses. The token is self-contained; no session state is kept.
func (s *ChatApp) issueToken(userId int, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		subClaim: userId,
		expClaim: time.Now().Add(ttl).Unix(),
	})

	return token.SignedString(s.signingKey)
}

// extractUserIdFromToken verifies the token signature and expiry and returns
// the subject user id.
func (s *ChatApp) extractUserIdFromToken(tokenString string) (int, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, fmt.Errorf("parse token: %w", err)
	}

	if !token.Valid {
		return 0, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	sub, ok := claims[subClaim].(float64)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}

	return int(sub), nil
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}
