package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/bloglist/internal/apperror"
	"github.com/sakif/bloglist/internal/auth"
	"github.com/sakif/bloglist/internal/model"
	"github.com/sakif/bloglist/internal/repository"
)

// MinPasswordLength is the shortest password registration accepts.
//
// The boundary is deliberate and a little odd: the rejection message talks
// about "over 3 characters" but a 3-character password passes. That is the
// documented behaviour of the API this service reproduces, and clients may
// have grown to depend on it, so it stays exactly as is.
const MinPasswordLength = 3

// UserService handles user registration and listing.
type UserService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, passwords *auth.PasswordService, logger *slog.Logger) *UserService {
	return &UserService{
		users:     users,
		passwords: passwords,
		logger:    logger,
	}
}

// List returns every user with their post references inlined.
// The password hash never leaves the model layer unserialized thanks to the
// json:"-" tag, so the users can be returned as-is.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Register validates and creates a new user account.
//
// Rules, in the order they are checked:
//  1. username must not be taken (case-sensitive exact match). The lookup
//     here produces the friendly error; the UNIQUE constraint in the store
//     is what actually closes the race between concurrent registrations.
//  2. password must be at least MinPasswordLength characters.
//  3. adult defaults to true when the request omits it (nil pointer).
//  4. the password is bcrypt-hashed; the plaintext is never stored.
func (s *UserService) Register(ctx context.Context, username, name, password string, adult *bool) (*model.User, error) {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("Username must be unique")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		s.logger.Error("failed to check username",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("checking username: %w", err)
	}

	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", "Password has to be over 3 characters long")
	}

	isAdult := true
	if adult != nil {
		isAdult = *adult
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.String("error", err.Error()))
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Username:     username,
		Name:         name,
		PasswordHash: hash,
		Adult:        isAdult,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// A lost uniqueness race surfaces here as the same conflict the
		// pre-check would have produced.
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}
