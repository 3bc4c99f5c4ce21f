package utils

import "golang.org/x/crypto/bcrypt"

// minBcryptCost keeps the work factor high enough to resist brute force even
// when the configured cost is lower.
const minBcryptCost = 10

// HashPassword returns a bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < minBcryptCost {
		cost = minBcryptCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password. A mismatch
// is reported as false, never as an error.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
