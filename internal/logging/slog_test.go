package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{
			name:  "empty token",
			token: "",
			want:  "<empty>",
		},
		{
			name:  "short token",
			token: "abc123",
			want:  "[token:6 chars]",
		},
		{
			name:  "jwt-looking token",
			token: "eyJhbGciOiJSUzI1NiJ9.payload.signature",
			want:  "[token:38 chars]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnonymizeEmail(t *testing.T) {
	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %q, want empty", got)
	}

	a := AnonymizeEmail("user@example.com")
	b := AnonymizeEmail("user@example.com")
	if a != b {
		t.Errorf("AnonymizeEmail not deterministic: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "user:") {
		t.Errorf("AnonymizeEmail() = %q, want user: prefix", a)
	}
	if strings.Contains(a, "example.com") {
		t.Errorf("AnonymizeEmail() leaked the address: %q", a)
	}
}

func TestErrNilIsOmitted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("op done", Err(nil))

	if strings.Contains(buf.String(), "error=") {
		t.Errorf("Err(nil) produced an error attribute: %s", buf.String())
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{"user@example.com", "example.com"},
		{"not-an-email", ""},
		{"", ""},
		{"a@b@c", ""},
	}

	for _, tt := range tests {
		if got := ExtractDomain(tt.email); got != tt.want {
			t.Errorf("ExtractDomain(%q) = %q, want %q", tt.email, got, tt.want)
		}
	}
}

func TestNewVerboseLevel(t *testing.T) {
	var buf bytes.Buffer

	logger := New(&buf, false)
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("info-level logger emitted debug output: %s", buf.String())
	}

	logger = New(&buf, true)
	logger.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("verbose logger dropped debug output")
	}
}
