package validation

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"student@example.com",
		"first.last@university.edu",
		"user+tag@sub.domain.org",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = false, want true", email)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@missing-local.com",
		"missing-domain@",
		"spaces in@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("ValidateEmail(%q) = true, want false", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if ok, _ := ValidatePassword("goodpass1"); !ok {
		t.Error("expected valid password to pass")
	}

	if ok, errs := ValidatePassword("short"); ok || len(errs) == 0 {
		t.Error("expected short password to fail with messages")
	}

	if ok, _ := ValidatePassword("12345678"); ok {
		t.Error("expected all-digit password to fail the letter requirement")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  "); got != "hello" {
		t.Errorf("SanitizeString trim: got %q", got)
	}
	if got := SanitizeString("a\x00b"); got != "ab" {
		t.Errorf("SanitizeString null bytes: got %q", got)
	}
}

func TestValidateStructTags(t *testing.T) {
	type request struct {
		Email string `validate:"required,email"`
		Role  string `validate:"required,oneof=student teacher"`
	}

	v := NewValidator()

	if err := v.ValidateStruct(&request{Email: "user@example.com", Role: "student"}); err != nil {
		t.Errorf("valid struct failed validation: %v", err)
	}

	err := v.ValidateStruct(&request{Email: "not-an-email", Role: "admin"})
	if err == nil {
		t.Fatal("expected invalid struct to fail validation")
	}

	fields := FormatValidationErrors(err)
	if _, ok := fields["email"]; !ok {
		t.Error("expected a formatted error for email")
	}
	if _, ok := fields["role"]; !ok {
		t.Error("expected a formatted error for role")
	}
}
