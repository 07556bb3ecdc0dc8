package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/repository"
	"github.com/mmeshcher/marketplace-system/internal/validation"
)

// SignupUser регистрирует нового пользователя и возвращает созданную запись.
// Адрес почты приводится к нижнему регистру: один адрес — одна учётная запись
// независимо от регистра при вводе.
func (s *Service) SignupUser(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, newValidationError("all fields must be filled")
	}

	email = strings.ToLower(email)

	if !validation.IsValidEmail(email) {
		return nil, newValidationError("email is not valid")
	}
	if !validation.IsStrongPassword(password) {
		return nil, newValidationError("password is not strong enough")
	}
	if !validation.IsAlphanumericUsername(username) {
		return nil, newValidationError("username must contain only letters and numbers")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	id, err := s.repo.CreateUser(ctx, username, email, hash)
	if err != nil {
		return nil, err
	}

	return s.repo.GetUserByID(ctx, id)
}

// AuthenticateUser проверяет email и пароль и возвращает пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" || password == "" {
		return nil, newValidationError("all fields must be filled")
	}

	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// UpdateProfile обновляет имя пользователя и/или аватар текущего пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, username, profileImage *string) (*model.User, error) {
	if username == nil && profileImage == nil {
		return nil, newValidationError("nothing to update")
	}
	if username != nil && !validation.IsAlphanumericUsername(*username) {
		return nil, newValidationError("username must contain only letters and numbers")
	}

	return s.repo.UpdateUserProfile(ctx, userID, username, profileImage)
}
