package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/clientpulse/internal/adapter/dto/common"
)

// CronAuth guards scheduler endpoints with a shared bearer secret. An empty
// secret rejects every request.
func CronAuth(secret string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c.Request())
			if !validSecret(secret, token) {
				if logger != nil {
					logger.Warn("⚠️ Rejected cron request",
						zap.String("path", c.Path()),
						zap.String("remote_ip", c.RealIP()),
						zap.Bool("token_present", token != ""),
					)
				}
				return c.JSON(http.StatusUnauthorized, common.ErrorResponse{Error: "unauthorized"})
			}
			return next(c)
		}
	}
}

func validSecret(secret, token string) bool {
	if secret == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(token)) == 1
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}
	// Expected format: "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
