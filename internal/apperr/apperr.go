package apperr

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Kind classifies a business failure so handlers can pick the HTTP status.
type Kind int

const (
	KindInvalid Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Invalid(msg string) error         { return &Error{Kind: KindInvalid, Message: msg} }
func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict covers already-processed records, duplicate pending requests and
// insufficient point balances. The API reports these as 400, not 409.
func Conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }

func statusOf(k Kind) int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}

// Respond maps a service error to the JSON error body. Anything outside the
// taxonomy is logged and answered with a generic 500 so datastore details
// never reach the client.
func Respond(c echo.Context, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return c.JSON(statusOf(ae.Kind), map[string]string{"message": ae.Message})
	}
	log.Printf("unexpected error on %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
}
