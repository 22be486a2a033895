package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/identity/errors"
)

type signup struct {
	Name     string `json:"name" validate:"required,identname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"pwd" validate:"required,min=8"`
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(signup{Name: "alice", Email: "alice@example.com", Password: "s3cr3t-pass"}); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	err := Validate(signup{Name: "1x", Email: "not-an-email", Password: "short"})
	if !errors.IsCode(err, errors.ErrCodePreconditionFailed) {
		t.Fatalf("expected PRECONDITION_FAILED, got %v", err)
	}
	msg := err.Error()
	for _, field := range []string{"name", "email", "pwd"} {
		if !strings.Contains(msg, field) {
			t.Errorf("expected message to mention %q, got %q", field, msg)
		}
	}

	appErr, _ := errors.AsAppError(err)
	fields, ok := appErr.Details["fields"].([]FieldError)
	if !ok || len(fields) != 3 {
		t.Errorf("expected 3 field errors in details, got %#v", appErr.Details)
	}
}

func TestIsEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"alice@example.com", true},
		{"a.b+c@sub.example.org", true},
		{"alice", false},
		{"alice@", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsEmail(tt.in); got != tt.want {
			t.Errorf("IsEmail(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsName(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"alice", true},
		{"bob_99", true},
		{"j.doe-x", true},
		{"al", false},
		{"9lives", false},
		{"alice@example.com", false},
		{strings.Repeat("a", 33), false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsName(tt.in); got != tt.want {
			t.Errorf("IsName(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsURL(t *testing.T) {
	for in, want := range map[string]bool{
		"https://app.example.com":        true,
		"http://localhost:8080/callback": true,
		"app.example.com":                false,
		"/relative/path":                 false,
		"":                               false,
	} {
		if got := IsURL(in); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestToSnakeCase(t *testing.T) {
	if got := toSnakeCase("SessionID"); got != "session_i_d" {
		t.Errorf("unexpected %q", got)
	}
	if got := toSnakeCase("appKey"); got != "app_key" {
		t.Errorf("unexpected %q", got)
	}
}
