package validator

import (
	"errors"
	"regexp"
	"strings"

	"freshmart/internal/usecase"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// 会員登録の入力を検証
func (v *authValidator) ValidateRegister(name string, email string, password string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	// 必須チェック
	if name == "" || email == "" || password == "" {
		return ErrInvalidInput
	}

	if len(name) < 2 {
		return ErrInvalidInput
	}

	if !emailPattern.MatchString(email) {
		return ErrInvalidInput
	}

	// パスワードは8文字以上
	if len(password) < 8 {
		return ErrInvalidInput
	}

	return nil
}
