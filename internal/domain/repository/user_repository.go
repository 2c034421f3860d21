package repository

import (
	"context"
	"errors"

	"github.com/ocmafia/server/internal/domain/entity"
)

// ErrNotFound is returned by repositories when a row does not exist.
// Infrastructure failures are returned as-is and must not be collapsed
// into ErrNotFound.
var ErrNotFound = errors.New("not found")

// UserRepository defines user persistence. Username lookups are
// case-insensitive; usernames differing only in case address the same user.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Follow(ctx context.Context, userID, targetID string) error
	Unfollow(ctx context.Context, userID, targetID string) error
	SearchByUsernamePrefix(ctx context.Context, prefix string, take int) ([]*entity.User, error)
}
