package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/models"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

// Authenticate attaches the principal of a valid bearer token to the request
// context. Requests without a token pass through anonymously; a malformed or
// expired token is rejected. When accounts is set the role and email are
// reloaded from the stored user on every request, so a demotion takes effect
// before the session expires.
func Authenticate(sessions SessionVerifier, accounts RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || sessions == nil {
			c.Next()
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid authorization header"})
			return
		}

		p, err := sessions.ParseSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		if accounts != nil {
			user, err := accounts.GetByID(c.Request.Context(), p.UserID.Hex())
			if err != nil {
				status := statusFor(err)
				c.AbortWithStatusJSON(status, ErrorResponse{Error: messageFor(err, status, "Failed to authenticate")})
				return
			}
			if user == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired token"})
				return
			}
			p.Email = user.Email
			p.Role = user.Role
			if p.Role == "" {
				p.Role = models.RoleUser
			}
		}

		c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
		c.Next()
	}
}

// RequireRole rejects anonymous requests with 401 and requests whose role is
// not listed with 403.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "Authentication required"})
			return
		}
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{Error: "Access denied"})
	}
}
