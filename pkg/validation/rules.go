package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// Rules are the pure field validators used by signup and password reset.
// They return an empty string on success so callers can aggregate messages
// per field without short-circuiting.

// UsernamePolicy bounds usernames; characters are limited to letters,
// digits and underscore.
type UsernamePolicy struct {
	MinLen int
	MaxLen int
}

// PasswordPolicy sets the minimum length and required character classes.
type PasswordPolicy struct {
	MinLen        int
	RequireLetter bool
	RequireDigit  bool
}

func DefaultUsernamePolicy() UsernamePolicy {
	return UsernamePolicy{MinLen: 3, MaxLen: 20}
}

func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{MinLen: 8, RequireLetter: true, RequireDigit: true}
}

// ValidateUsername returns a user-displayable message, or "" when valid.
func (p UsernamePolicy) ValidateUsername(s string) string {
	if s == "" {
		return "Username is required"
	}
	if len(s) < p.MinLen {
		return fmt.Sprintf("Username must be at least %d characters long", p.MinLen)
	}
	if len(s) > p.MaxLen {
		return fmt.Sprintf("Username cannot be longer than %d characters", p.MaxLen)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return "Username may only contain letters, numbers and underscores"
		}
	}
	return ""
}

// ValidatePassword returns a user-displayable message, or "" when valid.
func (p PasswordPolicy) ValidatePassword(s string) string {
	if s == "" {
		return "Password is required"
	}
	if len(s) < p.MinLen {
		return fmt.Sprintf("Password must be at least %d characters long", p.MinLen)
	}
	if p.RequireLetter && !strings.ContainsFunc(s, unicode.IsLetter) {
		return "Password must contain at least one letter"
	}
	if p.RequireDigit && !strings.ContainsFunc(s, unicode.IsDigit) {
		return "Password must contain at least one number"
	}
	return ""
}
