package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumina-learn/lumina/internal/roster"
)

// Error is the body of every failed response, wrapped as {"error": ...}.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

var (
	errNotFound   = newError("NOT_FOUND", http.StatusNotFound, "student not found")
	errNoActive   = newError("NOT_FOUND", http.StatusNotFound, "no active student")
	errEmptyPatch = newError("VALIDATION_ERROR", http.StatusBadRequest, "patch changes nothing")
	errNoProvider = newError("INSIGHT_UNAVAILABLE", http.StatusServiceUnavailable, "no insight provider configured")
	errInternal   = newError("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

func validationError(err error, message string) *Error {
	return &Error{Code: "VALIDATION_ERROR", Status: http.StatusBadRequest, Message: message, Err: err}
}

// fromError maps any error to an *Error.
func fromError(err error) *Error {
	var e *Error
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, roster.ErrEmptyName):
		return validationError(err, "name must not be empty")
	case errors.Is(err, roster.ErrNotFound):
		return errNotFound
	default:
		return &Error{Code: errInternal.Code, Status: errInternal.Status, Message: errInternal.Message, Err: err}
	}
}

type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, envelope{Data: data})
}

func respondError(c *gin.Context, err error) {
	e := fromError(err)
	_ = c.Error(err)
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(e.Status, envelope{Error: e})
}
