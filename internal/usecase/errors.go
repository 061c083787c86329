package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// エラーメッセージは全handler共通
const (
	msgNotAuthenticated  = "not authenticated"
	msgCartEmpty         = "cart empty"
	msgNotFound          = "not found"
	msgIllegalTransition = "illegal transition"
	msgStorageError      = "storage error"
)
