package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

func newCharacterRepoWithMock(t *testing.T) (*CharacterRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewCharacterRepository(mock), mock
}

func characterRow(currentGameID string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "owner_id", "name", "display_name", "avatar_url",
		"featured_image_url", "crowns", "strikes", "status", "current_game_id",
		"created_at", "updated_at",
	}).AddRow(
		"c1", "u1", "vito", "Vito", "", "", 2, 0,
		entity.CharacterActive, currentGameID, now, now,
	)
}

func TestCharacterRepositoryActiveByOwnerFiltersOnNull(t *testing.T) {
	repo, mock := newCharacterRepoWithMock(t)

	// The in-game filter must be a NULL check: current_game_id is a
	// nullable uuid, and comparing it to '' fails in Postgres parse
	// analysis before any row is read.
	mock.ExpectQuery(`FROM characters\s+WHERE owner_id = \$1 AND status = 'ACTIVE' AND current_game_id IS NOT NULL`).
		WithArgs("u1").
		WillReturnRows(characterRow("g1"))

	ch, err := repo.ActiveByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "c1", ch.ID)
	assert.Equal(t, "g1", ch.CurrentGameID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCharacterRepositoryListByOwnerCoalescesGameID(t *testing.T) {
	repo, mock := newCharacterRepoWithMock(t)

	// Idle characters have a NULL current_game_id; the select must
	// coalesce it so the scan into a string succeeds.
	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(current_game_id::text, '')")).
		WithArgs("u1").
		WillReturnRows(characterRow(""))

	chs, err := repo.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, chs, 1)
	assert.Empty(t, chs[0].CurrentGameID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCharacterRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newCharacterRepoWithMock(t)

	mock.ExpectQuery(`FROM characters WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
