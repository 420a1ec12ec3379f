package model

import (
	"strings"
	"time"

	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
)

// Role 使用者角色
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleParticipant Role = "PARTICIPANT"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleParticipant
}

// User 使用者模型，PasswordHash 不會輸出到 JSON
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserSummary 預約列表中附帶的使用者資訊
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// RegisterInput 註冊請求
type RegisterInput struct {
	Email     string `json:"email" binding:"required" validate:"required,email"`
	Password  string `json:"password" binding:"required" validate:"min=6,max=50,password"`
	FirstName string `json:"first_name" binding:"required" validate:"min=2,max=50"`
	LastName  string `json:"last_name" binding:"required" validate:"min=2,max=50"`
	Role      *Role  `json:"role,omitempty" validate:"omitempty,oneof=ADMIN PARTICIPANT"`
}

// Normalize 去除前後空白並將 email 轉為小寫
func (in *RegisterInput) Normalize() {
	in.Email = NormalizeEmail(in.Email)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
}

func (in RegisterInput) Validate() error {
	return checkStruct(in)
}

// LoginInput 登入請求
type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileParams 只允許修改姓名
type UpdateProfileParams struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

func (p UpdateProfileParams) Validate() error {
	if p.FirstName == nil && p.LastName == nil {
		return apperrors.Validation("no fields to update")
	}
	if p.FirstName != nil {
		if err := checkVar("first_name", strings.TrimSpace(*p.FirstName), nameRule); err != nil {
			return err
		}
	}
	if p.LastName != nil {
		if err := checkVar("last_name", strings.TrimSpace(*p.LastName), nameRule); err != nil {
			return err
		}
	}
	return nil
}

const nameRule = "min=2,max=50"

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AuthResult 登入成功回應
type AuthResult struct {
	AccessToken string `json:"access_token"`
	User        *User  `json:"user"`
}
