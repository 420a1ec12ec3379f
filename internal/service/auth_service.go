package service

import (
	"context"
	"errors"
	"fmt"

	"booknest/internal/auth"
	"booknest/internal/model"
	"booknest/internal/repository"
	apperrors "booknest/pkg/app_errors"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, input model.RegisterInput) (*model.User, error)
	Login(ctx context.Context, input model.LoginInput) (*model.AuthResult, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateProfileParams) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens auth.TokenIssuer
}

func NewAuthService(users repository.UserRepository, tokens auth.TokenIssuer) AuthService {
	return &AuthServiceImpl{users: users, tokens: tokens}
}

func (s *AuthServiceImpl) Register(ctx context.Context, input model.RegisterInput) (*model.User, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperrors.ErrEmailTaken
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	role := model.RoleParticipant
	if input.Role != nil {
		role = *input.Role
	}

	// 同時註冊時由 unique index 回傳 ErrEmailTaken
	return s.users.Create(ctx, &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Role:         role,
		IsActive:     true,
	})
}

func (s *AuthServiceImpl) Login(ctx context.Context, input model.LoginInput) (*model.AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, model.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, input.Password)
	if err != nil {
		return nil, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	return &model.AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		// token 有效但使用者已不存在
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params model.UpdateProfileParams) (*model.User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, userID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthServiceImpl) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
