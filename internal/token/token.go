// Package token issues and verifies the two kinds of bearer tokens the
// API uses: regular tokens for full access and short-lived temporary
// tokens scoped to the password-change operation.
package token

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go-taskboard/pkg/apierror"
)

const (
	DefaultRegularTTL   = time.Hour
	DefaultTemporaryTTL = 5 * time.Minute
)

// Claims is the signed token payload. PasswordExpired marks a temporary
// token that may only be used to change the password.
type Claims struct {
	jwt.RegisteredClaims
	UserID          int64 `json:"id"`
	PasswordExpired bool  `json:"passwordExpired,omitempty"`
}

type Service struct {
	secret     []byte
	regularTTL time.Duration
	tempTTL    time.Duration
}

func NewService(secret string, regularTTL time.Duration, tempTTL time.Duration) *Service {
	if regularTTL <= 0 {
		regularTTL = DefaultRegularTTL
	}
	if tempTTL <= 0 {
		tempTTL = DefaultTemporaryTTL
	}

	return &Service{
		secret:     []byte(secret),
		regularTTL: regularTTL,
		tempTTL:    tempTTL,
	}
}

// IssueRegular signs a full-access token for the user.
func (s *Service) IssueRegular(userID int64) (string, error) {
	return s.sign(userID, false, s.regularTTL)
}

// IssueTemporary signs a password-change-only token for the user.
func (s *Service) IssueTemporary(userID int64) (string, error) {
	return s.sign(userID, true, s.tempTTL)
}

// Verify checks the signature and expiry and returns the decoded claims.
// Callers must branch on Claims.PasswordExpired themselves.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Forbidden("invalid token signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Forbidden("invalid or expired token")
	}

	if claims.UserID == 0 {
		return nil, apierror.New("FORBIDDEN", "invalid token subject", "", http.StatusForbidden)
	}

	return claims, nil
}

func (s *Service) sign(userID int64, passwordExpired bool, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID:          userID,
		PasswordExpired: passwordExpired,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
