package application

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

type fakeGameRepo struct {
	byID    map[string]*entity.Game
	ordered []string
}

func newFakeGameRepo() *fakeGameRepo {
	return &fakeGameRepo{byID: map[string]*entity.Game{}}
}

func (r *fakeGameRepo) Create(_ context.Context, g *entity.Game) error {
	cp := *g
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.byID[cp.ID] = &cp
	r.ordered = append(r.ordered, cp.ID)
	*g = cp
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id string) (*entity.Game, error) {
	g, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (r *fakeGameRepo) ListRecent(_ context.Context, limit int) ([]*entity.Game, error) {
	var out []*entity.Game
	for i := len(r.ordered) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.byID[r.ordered[i]]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeGameRepo) ListByHost(_ context.Context, hostID string) ([]*entity.Game, error) {
	var out []*entity.Game
	for _, id := range r.ordered {
		g := r.byID[id]
		if g.MainHostID == hostID && g.Status != entity.GameCompleted {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeGameRepo) SearchByNamePrefix(_ context.Context, prefix string, take int) ([]*entity.Game, error) {
	var out []*entity.Game
	for _, id := range r.ordered {
		g := r.byID[id]
		if strings.HasPrefix(strings.ToLower(g.Name), strings.ToLower(prefix)) {
			cp := *g
			out = append(out, &cp)
			if len(out) == take {
				break
			}
		}
	}
	return out, nil
}

type fakeCharacterRepo struct {
	byID map[string]*entity.Character
}

func newFakeCharacterRepo() *fakeCharacterRepo {
	return &fakeCharacterRepo{byID: map[string]*entity.Character{}}
}

func (r *fakeCharacterRepo) GetByID(_ context.Context, id string) (*entity.Character, error) {
	ch, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *ch
	return &cp, nil
}

func (r *fakeCharacterRepo) ListByOwner(_ context.Context, ownerID string) ([]*entity.Character, error) {
	var out []*entity.Character
	for _, ch := range r.byID {
		if ch.OwnerID == ownerID {
			cp := *ch
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCharacterRepo) ActiveByOwner(_ context.Context, ownerID string) (*entity.Character, error) {
	for _, ch := range r.byID {
		if ch.OwnerID == ownerID && ch.CurrentGameID != "" {
			cp := *ch
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func newTestGames(t *testing.T) (*GameService, *fakeGameRepo, *fakeUserRepo, *fakeCharacterRepo) {
	t.Helper()
	games := newFakeGameRepo()
	users := newFakeUserRepo()
	characters := newFakeCharacterRepo()
	svc := NewGameService(games, users, characters, nil, nil)
	return svc, games, users, characters
}

func seedHost(t *testing.T, users *fakeUserRepo) *entity.User {
	t.Helper()
	u := &entity.User{Username: "Hostius", PasswordHash: "x"}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestCreateGame(t *testing.T) {
	svc, games, users, _ := newTestGames(t)
	host := seedHost(t, users)

	g, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name:        "First Blood",
		Location:    "The Forum",
		PlayerCount: 10,
		MainHostID:  host.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.GameEnlisting, g.Status)
	assert.NotEmpty(t, g.ID)
	assert.Len(t, games.byID, 1)
}

func TestCreateGameAggregatesValidation(t *testing.T) {
	svc, _, _, _ := newTestGames(t)

	_, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name:     "",
		Location: strings.Repeat("l", 21),
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Name of game is required", fe["name"])
	assert.Contains(t, fe, "location")
	assert.Contains(t, fe, "mainHost")
	assert.Contains(t, fe, "playerCount")
}

func TestCreateGameRejectsLongName(t *testing.T) {
	svc, _, users, _ := newTestGames(t)
	host := seedHost(t, users)

	_, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name:        strings.Repeat("n", 21),
		PlayerCount: 10,
		MainHostID:  host.ID,
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Name of game cannot be longer than 20 characters", fe["name"])
}

func TestCreateGameUnknownHost(t *testing.T) {
	svc, _, _, _ := newTestGames(t)

	_, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name:        "First Blood",
		PlayerCount: 10,
		MainHostID:  uuid.NewString(),
	})
	fe, ok := AsFieldErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Main host does not exist", fe["mainHost"])
}

func TestOverviewAnonymous(t *testing.T) {
	svc, _, users, _ := newTestGames(t)
	host := seedHost(t, users)
	for _, name := range []string{"One", "Two", "Three", "Four"} {
		_, err := svc.CreateGame(context.Background(), CreateGameInput{
			Name: name, PlayerCount: 8, MainHostID: host.ID,
		})
		require.NoError(t, err)
	}

	view, err := svc.Overview(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, view.Recent, 3)
	assert.Equal(t, "Four", view.Recent[0].Name) // newest first
	assert.Nil(t, view.CurrentGame)
	assert.Empty(t, view.Hosting)
}

func TestOverviewForViewer(t *testing.T) {
	svc, _, users, characters := newTestGames(t)
	host := seedHost(t, users)

	g, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name: "First Blood", PlayerCount: 8, MainHostID: host.ID,
	})
	require.NoError(t, err)

	characters.byID["c1"] = &entity.Character{
		ID: "c1", OwnerID: host.ID, Name: "Brutus",
		Status: entity.CharacterActive, CurrentGameID: g.ID,
	}

	view, err := svc.Overview(context.Background(), host.ID)
	require.NoError(t, err)
	require.NotNil(t, view.CurrentGame)
	assert.Equal(t, g.ID, view.CurrentGame.ID)
	require.Len(t, view.Hosting, 1)
	assert.Equal(t, g.ID, view.Hosting[0].ID)
}

func TestGetGame(t *testing.T) {
	svc, _, users, _ := newTestGames(t)
	host := seedHost(t, users)

	g, err := svc.CreateGame(context.Background(), CreateGameInput{
		Name: "First Blood", PlayerCount: 8, MainHostID: host.ID,
	})
	require.NoError(t, err)

	detail, err := svc.GetGame(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, detail.Game.ID)
	require.NotNil(t, detail.Host)
	assert.Equal(t, host.Username, detail.Host.Username)

	_, err = svc.GetGame(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
