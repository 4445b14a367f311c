package middleware

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestRedactDetails(t *testing.T) {
	body := []byte(`{"email":"new@test.local","name":"New User","password":"hunter22secret","role":"student"}`)

	out := redactDetails(body)
	if out == nil {
		t.Fatal("expected redacted details, got nil")
	}
	if bytes.Contains(out, []byte("hunter22secret")) {
		t.Error("plaintext password survived redaction")
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("redacted details are not valid JSON: %v", err)
	}
	if payload["password"] != "[REDACTED]" {
		t.Errorf("password = %v, want [REDACTED]", payload["password"])
	}
	if payload["email"] != "new@test.local" {
		t.Error("non-credential field was altered")
	}
}

func TestRedactDetailsCredentialVariants(t *testing.T) {
	body := []byte(`{"current_password":"old-secret","new_password":"new-secret","refresh_token":"eyJtoken"}`)

	out := redactDetails(body)
	for _, secret := range []string{"old-secret", "new-secret", "eyJtoken"} {
		if bytes.Contains(out, []byte(secret)) {
			t.Errorf("credential %q survived redaction", secret)
		}
	}
}

func TestRedactDetailsNonJSON(t *testing.T) {
	if out := redactDetails([]byte("teacher_id=1&subject_id=2")); out != nil {
		t.Errorf("non-JSON body should be dropped, got %s", out)
	}
	if out := redactDetails([]byte(`["not","an","object"]`)); out != nil {
		t.Errorf("non-object body should be dropped, got %s", out)
	}
}
