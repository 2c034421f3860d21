package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

const userColumns = `id, username, email, password_hash, security_question, security_answer,
	tagline, avatar_type, avatar_color, avatar_url, crowns, rubies, clearance,
	character_limit, following_ids, created_at, updated_at`

type UserRepository struct {
	pool DB
}

func NewUserRepository(pool DB) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.SecurityQuestion,
		&u.SecurityAnswer, &u.Tagline, &u.Avatar.Type, &u.Avatar.Color,
		&u.Avatar.URL, &u.Crowns, &u.Rubies, &u.Clearance, &u.CharacterLimit,
		&u.FollowingIDs, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Avatar.Type == "" {
		u.Avatar.Type = entity.AvatarColor
	}
	if u.Clearance == "" {
		u.Clearance = entity.ClearanceUser
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, security_question, security_answer,
			avatar_type, avatar_color, clearance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, crowns, rubies, character_limit, created_at, updated_at
	`, u.Username, u.Email, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswer,
		u.Avatar.Type, u.Avatar.Color, u.Clearance)
	return row.Scan(&u.ID, &u.Crowns, &u.Rubies, &u.CharacterLimit, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
}

// FindByUsername matches case-insensitively; backed by a unique index on
// LOWER(username).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username))
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET tagline = $1, avatar_type = $2, avatar_color = $3, avatar_url = $4,
			security_question = $5, security_answer = $6, crowns = $7, rubies = $8,
			updated_at = $9
		WHERE id = $10
	`, u.Tagline, u.Avatar.Type, u.Avatar.Color, u.Avatar.URL,
		u.SecurityQuestion, u.SecurityAnswer, u.Crowns, u.Rubies, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdatePassword is a single UPDATE so concurrent resets settle
// last-writer-wins without a read-modify-write window.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2
	`, passwordHash, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Follow(ctx context.Context, userID, targetID string) error {
	// Already following matches zero rows; a no-op, not an error.
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET following_ids = array_append(following_ids, $1), updated_at = now()
		WHERE id = $2 AND NOT ($1 = ANY(following_ids))
	`, targetID, userID)
	return err
}

func (r *UserRepository) Unfollow(ctx context.Context, userID, targetID string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET following_ids = array_remove(following_ids, $1), updated_at = now()
		WHERE id = $2
	`, targetID, userID)
	return err
}

func (r *UserRepository) SearchByUsernamePrefix(ctx context.Context, prefix string, take int) ([]*entity.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE username ILIKE $1 || '%'
		ORDER BY username
		LIMIT $2
	`, prefix, take)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
