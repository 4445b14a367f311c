package auth

import (
	"strings"
	"testing"
	"time"
)

func testJWTManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "secure-notes-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := testJWTManager()

	token, jti, err := manager.GenerateAccessToken(42, "teacher@example.com", "teacher", "Test Teacher", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Error("expected a non-empty JTI")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Role != "teacher" {
		t.Errorf("Role = %q, want teacher", claims.Role)
	}
	if claims.Name != "Test Teacher" {
		t.Errorf("Name = %q, want Test Teacher", claims.Name)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want JTI %q", claims.ID, jti)
	}
}

func TestRefreshTokenType(t *testing.T) {
	manager := testJWTManager()

	token, _, err := manager.GenerateRefreshToken(1, "user@example.com", "student", "User", 0)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("TokenType = %q, want refresh", claims.TokenType)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	manager := testJWTManager()

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "student", "User", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	// Flip a character in the payload segment
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := manager.ValidateToken(tampered); err == nil {
		t.Error("expected tampered token to fail validation")
	}
}

func TestWrongSecretRejected(t *testing.T) {
	manager := testJWTManager()
	other := NewJWTManager(JWTConfig{
		Secret: "a-completely-different-secret",
		Expiry: time.Hour,
	})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "student", "User", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("expected token signed with another secret to fail validation")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	manager := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "student", "User", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	_, err = manager.ValidateToken(token)
	if err != ErrExpiredToken {
		t.Errorf("ValidateToken returned %v, want ErrExpiredToken", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	manager := testJWTManager()

	refresh, _, err := manager.GenerateRefreshToken(7, "user@example.com", "student", "User", 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}

	claims, err := manager.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}

	// An access token must not be usable as a refresh token
	if _, _, err := manager.RefreshAccessToken(access, 1); err == nil {
		t.Error("expected RefreshAccessToken to reject an access token")
	}
}
