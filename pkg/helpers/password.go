package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordHasher wraps bcrypt with a configured cost and a bounded
// concurrency gate. Bcrypt is CPU-bound; the gate keeps a burst of logins
// from pinning every request goroutine on hashing at once.
type PasswordHasher struct {
	Cost int
	gate chan struct{}
}

// NewPasswordHasher creates a hasher with the given bcrypt cost and at most
// workers concurrent hash computations. Values out of range fall back to
// bcrypt.DefaultCost and a single worker.
func NewPasswordHasher(cost, workers int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	if workers < 1 {
		workers = 1
	}
	return &PasswordHasher{Cost: cost, gate: make(chan struct{}, workers)}
}

// Hash hashes the plain text password using bcrypt
func (h *PasswordHasher) Hash(plain string) (string, error) {
	h.gate <- struct{}{}
	defer func() { <-h.gate }()
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password
func (h *PasswordHasher) Verify(hash, plain string) bool {
	h.gate <- struct{}{}
	defer func() { <-h.gate }()
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
