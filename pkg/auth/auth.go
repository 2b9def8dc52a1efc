package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"droscher.com/FreshTaps/configs"
)

type ClaimsKey struct{}

type Manager struct {
	conf   *configs.Config
	logger *zap.Logger
}

func NewAuthManager(conf *configs.Config, logger *zap.Logger) *Manager {
	return &Manager{conf: conf, logger: logger}
}

// RequireAdmin guards admin routes with an HMAC bearer token. Parsed
// claims are stored on the request context under ClaimsKey.
func (a *Manager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if a.conf.Auth.SecretKey == "" {
			a.logger.Error("admin route hit with no auth secret configured")
			unauthorized(writer, "admin access not configured")

			return
		}

		keyFunc := func(token *jwt.Token) (interface{}, error) {
			_, ok := token.Method.(*jwt.SigningMethodHMAC)
			if !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}

			return []byte(a.conf.Auth.SecretKey), nil
		}

		accessToken, err := a.extractTokenFromHeader(request.Header)
		if err != nil {
			unauthorized(writer, err.Error())

			return
		}

		token, err := jwt.ParseWithClaims(*accessToken, jwt.MapClaims{}, keyFunc)
		if err != nil {
			a.logger.Error("error parsing token", zap.Error(err))
			unauthorized(writer, "error parsing token")

			return
		}

		claims, found := token.Claims.(jwt.MapClaims)
		if !found || !token.Valid {
			a.logger.Error("invalid token", zap.Any("claims", claims))
			unauthorized(writer, "invalid token")

			return
		}

		ctx := context.WithValue(request.Context(), ClaimsKey{}, claims)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func (a *Manager) extractTokenFromHeader(header http.Header) (*string, error) {
	authorization := header.Get("Authorization")
	if len(authorization) == 0 {
		a.logger.Error("No authorization header found")

		return nil, fmt.Errorf("authorization header not found")
	}

	prefix := "Bearer "
	if !strings.HasPrefix(authorization, prefix) {
		prefix = "bearer "
	}

	token, found := strings.CutPrefix(authorization, prefix)
	if !found {
		return nil, fmt.Errorf("authorization format must be Bearer {token}")
	}

	return &token, nil
}

func unauthorized(writer http.ResponseWriter, message string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(writer, `{"error":%q}`, message)
}
