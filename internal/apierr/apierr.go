package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind separates the three outcomes the boundary cares about: bad input,
// missing target, and a storage layer that could not commit.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPersistence Kind = "persistence"
)

type Error struct {
	Status int
	Kind   Kind
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(code string, err error) *Error {
	return &Error{Status: http.StatusBadRequest, Kind: KindValidation, Code: code, Err: err}
}

func NotFound(code string, err error) *Error {
	return &Error{Status: http.StatusNotFound, Kind: KindNotFound, Code: code, Err: err}
}

func Persistence(code string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Kind: KindPersistence, Code: code, Err: err}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsValidation(err error) bool  { return kindOf(err) == KindValidation }
func IsNotFound(err error) bool    { return kindOf(err) == KindNotFound }
func IsPersistence(err error) bool { return kindOf(err) == KindPersistence }

// StatusOf maps an error to an HTTP-style status, defaulting unknown errors
// to 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the machine-readable code, or "internal_error" when the
// error carries none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Code != "" {
		return e.Code
	}
	return "internal_error"
}
