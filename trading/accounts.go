package trading

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"stocks-simulator/apperr"
	"stocks-simulator/auth"
	"stocks-simulator/database"
	"stocks-simulator/models"
)

type RegisterInput struct {
	Username     string
	Password     string
	Confirmation string
}

// Register creates an account credited with the starting cash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	username := normalizeUsername(in.Username)
	switch {
	case username == "":
		return models.User{}, apperr.Invalid("must provide username")
	case in.Password == "":
		return models.User{}, apperr.Invalid("must provide password")
	case in.Confirmation == "":
		return models.User{}, apperr.Invalid("must confirm password")
	case in.Password != in.Confirmation:
		return models.User{}, apperr.Invalid("passwords don't match")
	}

	hash, err := s.hasher.Hash(in.Password)
	if errors.Is(err, auth.ErrTooLong) {
		return models.User{}, apperr.Invalid("password must be at most 72 bytes")
	}
	if err != nil {
		return models.User{}, s.internal("hash password", err)
	}
	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Cash:         s.startingCash,
	}
	if err := s.store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, database.ErrAlreadyExists) {
			return models.User{}, apperr.Duplicate("username already taken")
		}
		return models.User{}, s.internal("create user", err)
	}
	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and returns the matching user.
func (s *Service) Login(ctx context.Context, username, password string) (models.User, error) {
	username = normalizeUsername(username)
	if username == "" {
		return models.User{}, apperr.Invalid("must provide username")
	}
	if password == "" {
		return models.User{}, apperr.Invalid("must provide password")
	}

	const rejected = "invalid username and/or password"
	user, err := s.store.UserByUsername(ctx, username)
	if errors.Is(err, database.ErrNotFound) {
		return models.User{}, apperr.Unauthorized(rejected)
	}
	if err != nil {
		return models.User{}, s.internal("load user", err)
	}
	if err := s.hasher.Verify(user.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrMismatch) {
			s.logger.Warn("password verification failed", zap.Uint("user_id", user.ID), zap.Error(err))
		}
		return models.User{}, apperr.Unauthorized(rejected)
	}
	return user, nil
}
