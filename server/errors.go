package server

import (
	"errors"
	"net/http"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/mail"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, mail.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}

	switch inkwell.KindOf(err) {
	case inkwell.KindInvalidID, inkwell.KindValidation, inkwell.KindUpload:
		return http.StatusBadRequest
	case inkwell.KindNotFound:
		return http.StatusNotFound
	case inkwell.KindConflict:
		return http.StatusConflict
	case inkwell.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the text shown to clients. Internal failures are not
// described beyond fallback.
func messageFor(err error, status int, fallback string) string {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, mail.ErrNotConfigured):
		return err.Error()
	}
	if status == http.StatusInternalServerError {
		return fallback
	}
	var e *inkwell.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

func (s *Server) fail(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error(fallback,
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: messageFor(err, status, fallback)})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func notFound(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: msg})
}
