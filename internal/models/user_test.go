package models

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain", "alice", "alice", false},
		{"trimmed", "  bob  ", "bob", false},
		{"empty", "", "", true},
		{"only spaces", "   ", "", true},
		{"max length", strings.Repeat("a", 64), strings.Repeat("a", 64), false},
		{"too long", strings.Repeat("a", 65), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateUsername(tt.input)
			if tt.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewUserHashesPassword(t *testing.T) {
	registered := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	user, err := NewUser(1, "alice", "1234", registered)
	if err != nil {
		t.Fatal(err)
	}
	if user.PasswordHash == "1234" || strings.Contains(user.PasswordHash, "1234") {
		t.Error("password stored in the clear")
	}
	if user.Salt == "" {
		t.Error("expected a per-user salt")
	}
	if !user.VerifyPassword("1234") {
		t.Error("correct password rejected")
	}
	if user.VerifyPassword("4321") {
		t.Error("wrong password accepted")
	}
}

func TestNewUserShortPassword(t *testing.T) {
	_, err := NewUser(1, "alice", "123", time.Now())
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	user, err := NewUser(1, "alice", "1234", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := user.ChangePassword("abc"); err == nil {
		t.Error("expected error for short new password")
	}
	if err := user.ChangePassword("newpass"); err != nil {
		t.Fatal(err)
	}
	if user.VerifyPassword("1234") {
		t.Error("old password still accepted")
	}
	if !user.VerifyPassword("newpass") {
		t.Error("new password rejected")
	}
}

func TestInfoOmitsSecrets(t *testing.T) {
	user, err := NewUser(3, "carol", "1234", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	info := user.Info()
	if info.UserID != 3 || info.Username != "carol" {
		t.Errorf("unexpected info: %+v", info)
	}
}
