package auth

import (
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	password := "correct-horse-battery"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == password {
		t.Fatal("hash must not equal the plaintext password")
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Errorf("VerifyPassword with correct password: %v", err)
	}

	if err := VerifyPassword(hash, "wrong-password-123"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword with wrong password returned %v, want ErrPasswordMismatch", err)
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword returned %v, want ErrPasswordTooShort", err)
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	hash1, err := HashPassword("same-password-1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	hash2, err := HashPassword("same-password-1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash1 == hash2 {
		t.Error("expected different hashes for the same password")
	}
}
