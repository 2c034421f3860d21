package application

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Business-rule failures surfaced to the HTTP layer. Store and redis
// failures are never mapped onto these; they propagate as-is so the caller
// can tell "wrong credentials" from "credential store down".
var (
	// ErrInvalidCredentials covers both unknown username and wrong
	// password so login failures never confirm account existence.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound           = errors.New("user not found")
	ErrPasswordMismatch       = errors.New("confirmation password does not match the password")
	ErrSecurityPairIncomplete = errors.New("must provide both security question and answer")
	ErrNoSecurityAnswer       = errors.New("no security question configured for this account")
	ErrWrongAnswer            = errors.New("answer is incorrect")
	ErrUsernameTaken          = errors.New("username is already taken")
	ErrNotAuthorized          = errors.New("not authorized")
)

// FieldErrors aggregates per-field validation messages so a form can be
// re-rendered with every offending field annotated at once.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, fe[k]))
	}
	return "invalid fields: " + strings.Join(parts, "; ")
}

// AsFieldErrors unwraps err into FieldErrors when it is one.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
