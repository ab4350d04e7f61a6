package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finometry/ledger_backend/internal/apperrors"
	"github.com/finometry/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// errorResponse is the uniform error payload served to clients.
type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// respondError maps a service error to its HTTP status and a stable code.
// Internal errors are logged with the cause but served with a generic
// message.
func respondError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := apperrors.HTTPStatus(err)
	code := apperrors.CodeOf(err)

	if status == http.StatusInternalServerError {
		logger.Error("Request failed", slog.String("error", err.Error()))
		c.JSON(status, errorResponse{Code: code, Error: "internal server error"})
		return
	}

	logger.Warn("Request rejected",
		slog.String("code", code), slog.String("error", err.Error()))

	var appErr *apperrors.AppError
	msg := err.Error()
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}
	c.JSON(status, errorResponse{Code: code, Error: msg})
}

// requireUserID pulls the authenticated user from the request context,
// failing the request when the auth middleware did not run.
func requireUserID(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, errorResponse{Code: "UNAUTHORIZED", Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// parseTimeParam reads a query parameter as RFC 3339 or a bare date,
// returning fallback when the parameter is absent.
func parseTimeParam(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperrors.NewValidation(apperrors.CodeInvalidParameter,
			name+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
	}
	return t, nil
}
