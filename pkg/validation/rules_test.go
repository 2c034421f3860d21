package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	p := DefaultUsernamePolicy()

	tests := []struct {
		name     string
		username string
		wantMsg  string
	}{
		{"valid", "Valentinian", ""},
		{"valid with underscore and digits", "user_42", ""},
		{"empty", "", "Username is required"},
		{"too short", "ab", "Username must be at least 3 characters long"},
		{"too long", strings.Repeat("a", 21), "Username cannot be longer than 20 characters"},
		{"spaces", "bad name", "Username may only contain letters, numbers and underscores"},
		{"punctuation", "who?", "Username may only contain letters, numbers and underscores"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, p.ValidateUsername(tt.username))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	p := DefaultPasswordPolicy()

	tests := []struct {
		name     string
		password string
		wantMsg  string
	}{
		{"valid", "hunter2hunter2", ""},
		{"empty", "", "Password is required"},
		{"too short", "ab1", "Password must be at least 8 characters long"},
		{"no letter", "12345678", "Password must contain at least one letter"},
		{"no digit", "abcdefgh", "Password must contain at least one number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, p.ValidatePassword(tt.password))
		})
	}
}

func TestValidatePasswordOptionalClasses(t *testing.T) {
	p := PasswordPolicy{MinLen: 8}
	assert.Empty(t, p.ValidatePassword("abcdefgh"))
	assert.Empty(t, p.ValidatePassword("12345678"))
}
