package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// アプリ利用者。PasswordHashはbcrypt。
type User struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Identity はリクエスト文脈に載せる認証済みユーザーの最小情報。
type Identity struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// DisplayName は注文票に載せる表示名。名前→メール→Guest Userの順で採用。
func (i Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if i.Email != "" {
		return i.Email
	}
	return "Guest User"
}
