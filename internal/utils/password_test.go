package utils

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_NeverPlaintext(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Passw0rd", 10)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "" || hash == "Passw0rd" {
		t.Fatalf("hash must be a non-empty value distinct from the plaintext")
	}
	if !VerifyPassword(hash, "Passw0rd") {
		t.Fatalf("VerifyPassword should accept the original plaintext")
	}
	if VerifyPassword(hash, "passw0rd") {
		t.Fatalf("VerifyPassword should reject any other string")
	}
	if VerifyPassword(hash, "") {
		t.Fatalf("VerifyPassword should reject the empty string")
	}
}

func TestHashPassword_CostFloor(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("Passw0rd", 4)
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost error: %v", err)
	}
	if cost < minBcryptCost {
		t.Fatalf("cost %d below floor %d", cost, minBcryptCost)
	}
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Fatalf("garbage hash must not verify")
	}
}
