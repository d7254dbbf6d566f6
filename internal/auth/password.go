package auth

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the adaptive hashing cost used when none is configured.
const DefaultBcryptCost = 10

// PasswordHasher wraps one-way adaptive password hashing with a fixed cost.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher using the provided bcrypt cost. Costs
// outside bcrypt's supported range fall back to DefaultBcryptCost.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return PasswordHasher{cost: cost}
}

// Hash derives a self-salting digest from the plaintext password.
func (h PasswordHasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Check reports whether the plaintext matches the digest. Malformed digests
// verify as false rather than erroring.
func (h PasswordHasher) Check(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
