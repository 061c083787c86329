package validator

import (
	"errors"
	"regexp"
	"strings"

	"freshmart/internal/domain/model"
	"freshmart/internal/usecase"
)

var (
	ErrInvalidName    = errors.New("please enter a valid name (letters only, minimum 2 characters)")
	ErrInvalidEmail   = errors.New("please enter a valid email address")
	ErrInvalidPhone   = errors.New("please enter a valid phone number")
	ErrInvalidMessage = errors.New("please enter a message (minimum 10 characters)")
)

// お問い合わせフォームのルール
var (
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	phonePattern = regexp.MustCompile(`^[\+]?[1-9][\d]{0,15}$`)
)

type contactValidator struct{}

// Usecaseは interface を依存注入
func NewContactValidator() usecase.ContactValidator {
	return &contactValidator{}
}

func (v *contactValidator) Validate(msg model.ContactMessage) error {
	name := strings.TrimSpace(msg.Name)
	if len(name) < 2 || !namePattern.MatchString(name) {
		return ErrInvalidName
	}

	if !emailPattern.MatchString(strings.TrimSpace(msg.Email)) {
		return ErrInvalidEmail
	}

	if !phonePattern.MatchString(strings.TrimSpace(msg.Phone)) {
		return ErrInvalidPhone
	}

	if len(strings.TrimSpace(msg.Message)) < 10 {
		return ErrInvalidMessage
	}

	return nil
}
