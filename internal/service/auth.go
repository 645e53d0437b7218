// Package service contains the business logic layer of the application.
//
// Handlers parse requests and write responses; services validate input,
// enforce the ownership rules, and orchestrate repositories; repositories
// read and write the database. Services receive repository interfaces, not
// concrete types, so tests inject in-memory mocks.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/Pvayush/TexasInterns/internal/apperror"
	"github.com/Pvayush/TexasInterns/internal/auth"
	"github.com/Pvayush/TexasInterns/internal/model"
	"github.com/Pvayush/TexasInterns/internal/repository"
)

const (
	MaxNameLength     = 50
	MinPasswordLength = 6
)

// AuthService handles registration and login.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger

	// dummyHash is compared against when a login names an unknown email, so
	// the unknown-email path costs the same bcrypt work as a wrong password.
	// Without it, response timing would reveal which emails are registered.
	dummyHash string
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	dummyHash, err := passwords.Hash("timing-equalisation-only")
	if err != nil {
		// Hash only fails on >72-byte input; this constant isn't.
		panic(fmt.Sprintf("service/auth: hashing dummy password: %v", err))
	}

	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
		dummyHash: dummyHash,
	}
}

// AuthResult bundles the user record and the issued tokens so the handler
// can build the response in one step.
//
// Token is the long-lived session token. AccessToken is the short-lived
// (1 hour) token additionally issued at login; it is empty for registration.
type AuthResult struct {
	User        *model.User
	Token       string
	AccessToken string
}

// Register creates a new account and issues a session token.
//
// Fails with apperror.ErrValidation on missing/malformed fields and with
// apperror.ErrConflict if the email is already registered. The plaintext
// password is hashed immediately and never stored or logged.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("name must be %d characters or less", MaxNameLength))
	}
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "email is not valid")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		s.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates an email/password pair and issues a session token plus
// a short-lived access token.
//
// Unknown email and wrong password both fail with the same undifferentiated
// invalid-credentials error, on the same code path shape: a bcrypt
// comparison runs in either case.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.ValidationFailed("email", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			// Burn the same bcrypt work as the known-email path.
			_ = s.passwords.Verify(s.dummyHash, password)
			return nil, apperror.InvalidCredentials()
		}
		s.logger.Error("failed to look up user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}
	accessToken, err := s.tokens.GenerateWithDuration(user.ID, auth.AccessTokenLifetime)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating access token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token, AccessToken: accessToken}, nil
}

// GetUserByID returns the user for the given internal ID. Used by the /me
// endpoint after the middleware has validated the token.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID is required")
	}
	return s.users.GetUserByID(ctx, id)
}
