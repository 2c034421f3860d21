package entity

import (
	"strings"
	"time"
)

// Clearance is the authorization level attached to a user.
type Clearance string

const (
	ClearanceUser  Clearance = "USER"
	ClearanceAdmin Clearance = "ADMIN"
)

// AvatarType selects between a gradient color avatar and an uploaded image.
type AvatarType string

const (
	AvatarColor AvatarType = "COLOR"
	AvatarImage AvatarType = "IMAGE"
)

type Avatar struct {
	Type  AvatarType
	Color string
	URL   string
}

// User is the aggregate root for the user domain.
// PasswordHash holds a bcrypt digest; plaintext is never stored.
// SecurityQuestion/SecurityAnswer are the recovery pair: both set or both
// empty, enforced at signup and profile edit.
type User struct {
	ID               string
	Username         string
	Email            string // optional; only used for notification mail
	PasswordHash     string
	SecurityQuestion string
	SecurityAnswer   string
	Tagline          string
	Avatar           Avatar
	Crowns           int
	Rubies           int
	Clearance        Clearance
	CharacterLimit   int
	FollowingIDs     []string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasSecurityAnswer reports whether password recovery via security question
// is possible for this user.
func (u *User) HasSecurityAnswer() bool {
	return u.SecurityAnswer != ""
}

// AnswerMatches compares a candidate recovery answer case-insensitively.
// A user without a configured answer never matches.
func (u *User) AnswerMatches(candidate string) bool {
	if !u.HasSecurityAnswer() {
		return false
	}
	return strings.ToLower(candidate) == strings.ToLower(u.SecurityAnswer)
}

// IsFollowing reports whether the user follows the given profile.
func (u *User) IsFollowing(id string) bool {
	for _, f := range u.FollowingIDs {
		if f == id {
			return true
		}
	}
	return false
}
