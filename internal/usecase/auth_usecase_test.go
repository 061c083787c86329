package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"freshmart/internal/domain/model"
	infraRepo "freshmart/internal/infra/repository"

	"github.com/stretchr/testify/assert"
)

type stubAuthValidator struct{}

func (stubAuthValidator) ValidateRegister(name string, email string, password string) error {
	if name == "" || email == "" || len(password) < 8 {
		return errors.New("invalid input")
	}
	return nil
}

type stubIssuer struct{}

func (stubIssuer) Issue(identity model.Identity, now time.Time) (string, time.Time, error) {
	return "token-" + identity.ID, now.Add(time.Hour), nil
}

func newAuthUsecaseForTest() (*AuthUsecase, *infraRepo.UserKVRepository) {
	kv := infraRepo.NewKVMemoryStore()
	userRepo := infraRepo.NewUserKVRepository(kv)
	clock := &fixedClock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}

	return NewAuthUsecase(userRepo, stubAuthValidator{}, stubIssuer{}, clock, &seqIDGen{}), userRepo
}

func TestAuthUsecase_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecaseForTest()

	out, err := uc.Register(ctx, RegisterInput{
		Name:     "Taro",
		Email:    "Taro@Example.com",
		Password: "password123",
	})
	assert.NoError(t, err)

	// メールは小文字で保存される
	assert.Equal(t, "taro@example.com", out.User.Email)
	assert.Equal(t, model.RoleUser, out.User.Role)
	assert.True(t, strings.HasPrefix(out.Token, "token-"))

	login, err := uc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.Equal(t, out.User.ID, login.User.ID)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecaseForTest()

	_, err := uc.Register(ctx, RegisterInput{Name: "Taro", Email: "taro@example.com", Password: "password123"})
	assert.NoError(t, err)

	_, err = uc.Register(ctx, RegisterInput{Name: "Jiro", Email: "TARO@example.com", Password: "password456"})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	uc, _ := newAuthUsecaseForTest()

	_, err := uc.Register(ctx, RegisterInput{Name: "Taro", Email: "taro@example.com", Password: "password123"})
	assert.NoError(t, err)

	_, err = uc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "wrong-password"})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "invalid credentials", he.Message)
}

func TestAuthUsecase_Login_UnknownEmailSameMessage(t *testing.T) {
	uc, _ := newAuthUsecaseForTest()

	_, err := uc.Login(context.Background(), LoginInput{Email: "nobody@example.com", Password: "password123"})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, he.Status)
	assert.Equal(t, "invalid credentials", he.Message)
}

func TestAuthUsecase_Login_RecordsLastLogin(t *testing.T) {
	ctx := context.Background()
	uc, userRepo := newAuthUsecaseForTest()

	out, err := uc.Register(ctx, RegisterInput{Name: "Taro", Email: "taro@example.com", Password: "password123"})
	assert.NoError(t, err)

	_, err = uc.Login(ctx, LoginInput{Email: "taro@example.com", Password: "password123"})
	assert.NoError(t, err)

	stored, err := userRepo.FindByID(ctx, out.User.ID)
	assert.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}
