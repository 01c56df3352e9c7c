// Package password wraps bcrypt hashing behind a small, injectable
// hasher so the work factor stays configurable and verification never
// surfaces a mismatch as an error.
package password

import "golang.org/x/crypto/bcrypt"

// HashLength is the length of every bcrypt hash this hasher emits.
// Stored hashes shorter than this predate the hashing scheme and are
// treated as legacy credentials.
const HashLength = 60

const DefaultCost = 10

type Hasher struct {
	cost int
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash generates a fresh salt and returns the salted hash. The salt is
// embedded in the output, so nothing besides the hash needs storing.
func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored hash. A mismatch is a
// normal false result, not an error.
func (h *Hasher) Verify(plain string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
