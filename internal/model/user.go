package model

import "time"

// User is the credential record backing authentication. PasswordHash is
// never serialized to clients.
type User struct {
	ID                 int64     `json:"id"`
	Username           string    `json:"username"`
	PasswordHash       string    `json:"-"`
	PasswordChangedAt  time.Time `json:"password_changed_at"`
	ForcePasswordReset bool      `json:"force_password_reset"`
	CreatedAt          time.Time `json:"created_at"`
}
