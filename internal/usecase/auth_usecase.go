package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"freshmart/internal/domain/model"
	repo "freshmart/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 登録入力の検証はvalidatorパッケージが実装する
type AuthValidator interface {
	ValidateRegister(name string, email string, password string) error
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(identity model.Identity, now time.Time) (token string, expiresAt time.Time, err error)
}

type AuthUsecase struct {
	userRepo  repo.UserRepository
	validator AuthValidator
	issuer    AccessTokenIssuer
	clock     Clock
	idGen     IDGenerator
	cost      int
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	validator AuthValidator,
	issuer AccessTokenIssuer,
	clock Clock,
	idGen IDGenerator,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		validator: validator,
		issuer:    issuer,
		clock:     clock,
		idGen:     idGen,
		cost:      bcrypt.DefaultCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

type AuthOutput struct {
	User      UserOutput `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expiresAt"`
}

// 会員登録。メールは小文字に正規化して保存する。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	if err := u.validator.ValidateRegister(in.Name, in.Email, in.Password); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	_, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return AuthOutput{}, NewHTTPError(http.StatusConflict, "email already used")
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         model.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Save(ctx, user); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return u.issueFor(user, now)
}

// ログイン。メール不在とパスワード不一致は同じメッセージで返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return AuthOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	if !user.IsActive {
		return AuthOutput{}, NewHTTPError(http.StatusForbidden, "user is inactive")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return AuthOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	user.LastLoginAt = &now
	user.UpdatedAt = now
	if err := u.userRepo.Save(ctx, user); err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, msgStorageError)
	}

	return u.issueFor(user, now)
}

func (u *AuthUsecase) issueFor(user model.User, now time.Time) (AuthOutput, error) {
	identity := model.Identity{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}

	token, expiresAt, err := u.issuer.Issue(identity, now)
	if err != nil {
		return AuthOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return AuthOutput{
		User: UserOutput{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Role:  user.Role,
		},
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
