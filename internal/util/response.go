package util

import (
	"errors"
	"log/slog"
	"net/http"

	"wallet-api/internal/errs"
	"wallet-api/internal/logger"

	"github.com/gin-gonic/gin"
)

// Business error codes carried in every error body.
const (
	CodeInvalidParam = 40001
	CodeInactive     = 40002
	CodeAuth         = 40101
	CodeForbidden    = 40301
	CodeNotFound     = 40401
	CodeConflict     = 40901
	CodeServerErr    = 50001
)

// Success writes body as-is; projections are the wire contract.
func Success(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

// Error writes {code, detail} and aborts the chain.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"code":   code,
		"detail": msg,
	})
}

// Fail maps the error taxonomy onto HTTP statuses. Anything unrecognised is
// logged and reported as 500.
func Fail(c *gin.Context, err error) {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, CodeInvalidParam, ve.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		Error(c, http.StatusNotFound, CodeNotFound, "Incorrect username or password.")
	case errors.Is(err, errs.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Bearer")
		Error(c, http.StatusUnauthorized, CodeAuth, "Invalid credentials.")
	case errors.Is(err, errs.ErrInactiveUser):
		Error(c, http.StatusBadRequest, CodeInactive, "User is inactive.")
	case errors.Is(err, errs.ErrNotFound):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, errs.ErrConflict):
		Error(c, http.StatusConflict, CodeConflict, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		Error(c, http.StatusForbidden, CodeForbidden, err.Error())
	default:
		slog.ErrorContext(c.Request.Context(), "request failed",
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.FullPath(),
			logger.FieldError, err,
		)
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal server error")
	}
}
