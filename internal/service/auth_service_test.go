package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-taskboard/internal/model"
	"go-taskboard/internal/password"
	"go-taskboard/internal/token"
	"go-taskboard/pkg/apierror"
)

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]model.User{}}
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByUsername(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return 0, model.ErrUsernameTaken
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *fakeUserStore) FlagPasswordReset(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.ForcePasswordReset = true
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string, changedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.PasswordChangedAt = changedAt
	u.ForcePasswordReset = false
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) get(t *testing.T, id int64) model.User {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	require.True(t, ok, "user %d should exist", id)
	return u
}

// plaintextHasher stores passwords verbatim. Its "hashes" are shorter
// than a bcrypt hash, which makes it handy for exercising the legacy
// credential path with a password that still verifies.
type plaintextHasher struct{}

func (plaintextHasher) Hash(plain string) (string, error)     { return plain, nil }
func (plaintextHasher) Verify(plain string, hash string) bool { return plain == hash }

func newAuthService(users UserStore) *AuthService {
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := token.NewService("test-secret", time.Hour, 5*time.Minute)
	return NewAuthService(users, hasher, tokens, 30*24*time.Hour)
}

func requireAPIError(t *testing.T, err error, status int) *apierror.APIError {
	t.Helper()
	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.HTTPStatus)
	return apiErr
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		wantMsg  string
	}{
		{name: "missing username", username: "", password: "password123", wantMsg: "Username and password are required."},
		{name: "missing password", username: "alice1", password: "", wantMsg: "Username and password are required."},
		{name: "short username", username: "bob", password: "password123", wantMsg: "Username must be at least 5 characters long."},
		{name: "short password", username: "alice1", password: "short", wantMsg: "Password must be at least 8 characters long."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAuthService(newFakeUserStore())

			err := svc.Register(context.Background(), tt.username, tt.password)
			apiErr := requireAPIError(t, err, http.StatusBadRequest)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestRegisterPersistsHashedPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	stored := users.get(t, 1)
	assert.Equal(t, "alice1", stored.Username)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.Len(t, stored.PasswordHash, password.HashLength)
	assert.False(t, stored.ForcePasswordReset)
	assert.False(t, stored.PasswordChangedAt.IsZero())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	err := svc.Register(context.Background(), "alice1", "otherpassword")
	apiErr := requireAPIError(t, err, http.StatusConflict)
	assert.Equal(t, "Username already exists.", apiErr.Message)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	_, err := svc.Login(context.Background(), "ghost", "password123")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid username or password.", apiErr.Message)
}

func TestLoginWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	_, err := svc.Login(context.Background(), "alice1", "wrongpassword")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid username or password.", apiErr.Message)
}

func TestLoginIssuesRegularToken(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	signed, err := svc.Login(context.Background(), "alice1", "password123")
	require.NoError(t, err)

	claims, err := svc.tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.False(t, claims.PasswordExpired)
}

func TestLoginExpiredPasswordRequiresReset(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	// Shift the clock 31 days forward; the stored credential is now stale.
	svc.now = func() time.Time { return time.Now().Add(31 * 24 * time.Hour) }

	_, err := svc.Login(context.Background(), "alice1", "password123")

	var resetErr *PasswordResetRequiredError
	require.ErrorAs(t, err, &resetErr)
	require.NotEmpty(t, resetErr.TempToken)

	claims, err := svc.tokens.Verify(resetErr.TempToken)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.True(t, claims.PasswordExpired)
}

func TestLoginLegacyHashFlagsAccountOnWrongPassword(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	// Stored credential predates hashing: plaintext, well under 60 chars.
	id, err := users.Create(context.Background(), model.User{
		Username:          "legacyuser",
		PasswordHash:      "plaintextpw",
		PasswordChangedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "legacyuser", "doesnotmatch")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid username or password.", apiErr.Message)

	// The flag was set as a side effect even though the login failed.
	assert.True(t, users.get(t, id).ForcePasswordReset)
}

func TestLoginLegacyHashForcesResetOnCorrectPassword(t *testing.T) {
	users := newFakeUserStore()
	tokens := token.NewService("test-secret", time.Hour, 5*time.Minute)
	svc := NewAuthService(users, plaintextHasher{}, tokens, 30*24*time.Hour)

	id, err := users.Create(context.Background(), model.User{
		Username:          "legacyuser",
		PasswordHash:      "plaintextpw",
		PasswordChangedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "legacyuser", "plaintextpw")

	var resetErr *PasswordResetRequiredError
	require.ErrorAs(t, err, &resetErr)
	assert.True(t, users.get(t, id).ForcePasswordReset)

	claims, err := tokens.Verify(resetErr.TempToken)
	require.NoError(t, err)
	assert.True(t, claims.PasswordExpired)
}

func TestLoginFlaggedAccountRequiresReset(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))
	require.NoError(t, users.FlagPasswordReset(context.Background(), 1))

	_, err := svc.Login(context.Background(), "alice1", "password123")

	var resetErr *PasswordResetRequiredError
	require.ErrorAs(t, err, &resetErr)
}

func TestChangePasswordValidation(t *testing.T) {
	svc := newAuthService(newFakeUserStore())

	_, err := svc.ChangePassword(context.Background(), 1, "short")
	apiErr := requireAPIError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Password must be at least 8 characters long.", apiErr.Message)
}

func TestChangePasswordClearsResetFlag(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))
	require.NoError(t, users.FlagPasswordReset(context.Background(), 1))

	signed, err := svc.ChangePassword(context.Background(), 1, "newpassword456")
	require.NoError(t, err)

	claims, err := svc.tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
	assert.False(t, claims.PasswordExpired)

	stored := users.get(t, 1)
	assert.False(t, stored.ForcePasswordReset)

	// The new credential logs in normally again.
	regular, err := svc.Login(context.Background(), "alice1", "newpassword456")
	require.NoError(t, err)
	assert.NotEmpty(t, regular)

	// The old one no longer does.
	_, err = svc.Login(context.Background(), "alice1", "password123")
	requireAPIError(t, err, http.StatusBadRequest)
}

func TestRequestPasswordReset(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(users)

	require.NoError(t, svc.Register(context.Background(), "alice1", "password123"))

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.RequestPasswordReset(context.Background(), "ghost")
		apiErr := requireAPIError(t, err, http.StatusNotFound)
		assert.Equal(t, "User not found.", apiErr.Message)
	})

	t.Run("missing username", func(t *testing.T) {
		_, err := svc.RequestPasswordReset(context.Background(), "")
		requireAPIError(t, err, http.StatusBadRequest)
	})

	t.Run("issues temporary token", func(t *testing.T) {
		tempToken, err := svc.RequestPasswordReset(context.Background(), "alice1")
		require.NoError(t, err)

		claims, err := svc.tokens.Verify(tempToken)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
		assert.True(t, claims.PasswordExpired)
	})
}

func TestLoginPropagatesStoreErrors(t *testing.T) {
	users := &erroringUserStore{err: errors.New("connection refused")}
	svc := newAuthService(users)

	_, err := svc.Login(context.Background(), "alice1", "password123")
	require.Error(t, err)

	var apiErr *apierror.APIError
	assert.False(t, errors.As(err, &apiErr), "store failures must not map to client errors")
}

type erroringUserStore struct {
	err error
}

func (s *erroringUserStore) FindByID(context.Context, int64) (model.User, error) {
	return model.User{}, s.err
}

func (s *erroringUserStore) FindByUsername(context.Context, string) (model.User, error) {
	return model.User{}, s.err
}

func (s *erroringUserStore) ExistsByUsername(context.Context, string) (bool, error) {
	return false, s.err
}

func (s *erroringUserStore) Create(context.Context, model.User) (int64, error) {
	return 0, s.err
}

func (s *erroringUserStore) FlagPasswordReset(context.Context, int64) error {
	return s.err
}

func (s *erroringUserStore) UpdatePassword(context.Context, int64, string, time.Time) error {
	return s.err
}
