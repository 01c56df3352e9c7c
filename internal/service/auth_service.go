package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-taskboard/internal/model"
	"go-taskboard/internal/password"
	"go-taskboard/internal/token"
	"go-taskboard/pkg/apierror"
)

const (
	MinUsernameLength = 5
	MinPasswordLength = 8
)

// UserStore is the credential store consumed by the policy engine.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, u model.User) (int64, error)
	FlagPasswordReset(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, changedAt time.Time) error
}

// PasswordHasher is the one-way hashing contract: Hash salts per call,
// Verify reports mismatch as a plain false.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hash string) bool
}

// PasswordResetRequiredError is returned by Login when the password
// verified but the credential is stale or flagged. It carries the
// temporary token the client must use to change the password.
type PasswordResetRequiredError struct {
	TempToken string
}

func (e *PasswordResetRequiredError) Error() string {
	return "password must be reset before logging in"
}

// AuthService decides whether a presented credential grants access and
// drives the forced-reset lifecycle.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens *token.Service
	maxAge time.Duration
	now    func() time.Time
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens *token.Service, passwordMaxAge time.Duration) *AuthService {
	if passwordMaxAge <= 0 {
		passwordMaxAge = 30 * 24 * time.Hour
	}

	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		maxAge: passwordMaxAge,
		now:    time.Now,
	}
}

// Register creates a new user. It returns no token; the caller must log
// in separately.
func (s *AuthService) Register(ctx context.Context, username string, plainPassword string) error {
	if username == "" || plainPassword == "" {
		return apierror.BadRequest("Username and password are required.")
	}
	if len(username) < MinUsernameLength {
		return apierror.BadRequest("Username must be at least 5 characters long.")
	}
	if len(plainPassword) < MinPasswordLength {
		return apierror.BadRequest("Password must be at least 8 characters long.")
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	if exists {
		return apierror.Conflict("Username already exists.")
	}

	hash, err := s.hasher.Hash(plainPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	_, err = s.users.Create(ctx, model.User{
		Username:          username,
		PasswordHash:      hash,
		PasswordChangedAt: now,
		CreatedAt:         now,
	})
	if errors.Is(err, model.ErrUsernameTaken) {
		// Lost the race against a concurrent registration.
		return apierror.Conflict("Username already exists.")
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// Login validates the credential and issues a regular token, or fails
// with PasswordResetRequiredError carrying a temporary token when the
// account must change its password first.
func (s *AuthService) Login(ctx context.Context, username string, plainPassword string) (string, error) {
	if username == "" || plainPassword == "" {
		return "", apierror.BadRequest("Username and password are required.")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		// Same message as a bad password so usernames cannot be enumerated.
		return "", apierror.BadRequest("Invalid username or password.")
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	// Legacy hash detection: a stored hash shorter than the hasher's
	// output predates the hashing scheme. The flag is set before the
	// password check and sticks even if this attempt's password is wrong.
	if len(user.PasswordHash) < password.HashLength && !user.ForcePasswordReset {
		if err := s.users.FlagPasswordReset(ctx, user.ID); err != nil {
			return "", fmt.Errorf("flag password reset: %w", err)
		}
		user.ForcePasswordReset = true
	}

	expired := s.now().UTC().Sub(user.PasswordChangedAt) > s.maxAge

	if !s.hasher.Verify(plainPassword, user.PasswordHash) {
		return "", apierror.BadRequest("Invalid username or password.")
	}

	if user.ForcePasswordReset || expired {
		tempToken, err := s.tokens.IssueTemporary(user.ID)
		if err != nil {
			return "", fmt.Errorf("issue temporary token: %w", err)
		}
		return "", &PasswordResetRequiredError{TempToken: tempToken}
	}

	regularToken, err := s.tokens.IssueRegular(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return regularToken, nil
}

// RequestPasswordReset issues a temporary token from the username alone.
// There is no proof of identity beyond knowing the username; that is the
// recovery flow as shipped, not an oversight to harden silently.
func (s *AuthService) RequestPasswordReset(ctx context.Context, username string) (string, error) {
	if username == "" {
		return "", apierror.BadRequest("Username is required.")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		return "", apierror.New("NOT_FOUND", "User not found.", "", http.StatusNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}

	tempToken, err := s.tokens.IssueTemporary(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue temporary token: %w", err)
	}
	return tempToken, nil
}

// ChangePassword stores a new hash, clears the forced-reset flag and
// returns a fresh regular token.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, newPassword string) (string, error) {
	if len(newPassword) < MinPasswordLength {
		return "", apierror.BadRequest("Password must be at least 8 characters long.")
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, hash, s.now().UTC()); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}

	regularToken, err := s.tokens.IssueRegular(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return regularToken, nil
}
