package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
)

const maxGameNameLen = 20

// GameService covers game browsing and admin game creation. Scoring and
// game progression are data display only; the service never mutates
// standings.
type GameService struct {
	Games      repository.GameRepository
	Users      repository.UserRepository
	Characters repository.CharacterRepository
	Search     *SearchIndex
	Logger     *logrus.Logger
}

func NewGameService(games repository.GameRepository, users repository.UserRepository,
	characters repository.CharacterRepository, search *SearchIndex, logger *logrus.Logger) *GameService {
	return &GameService{Games: games, Users: users, Characters: characters, Search: search, Logger: logger}
}

type CreateGameInput struct {
	Name         string
	Location     string
	PlayerCount  int
	MainHostID   string
	WinnerCrowns int
	WinnerRubies int
	LoserRubies  int
	LoserStrikes int
}

// CreateGame validates and creates a game. Name/location/host problems are
// reported together, one message per field.
func (s *GameService) CreateGame(ctx context.Context, in CreateGameInput) (*entity.Game, error) {
	fieldErrs := FieldErrors{}
	if in.Name == "" {
		fieldErrs["name"] = "Name of game is required"
	} else if len(in.Name) > maxGameNameLen {
		fieldErrs["name"] = "Name of game cannot be longer than 20 characters"
	}
	if len(in.Location) > maxGameNameLen {
		fieldErrs["location"] = "Name of location cannot be longer than 20 characters"
	}
	if in.MainHostID == "" {
		fieldErrs["mainHost"] = "Must choose a main host!"
	}
	if in.PlayerCount <= 0 {
		fieldErrs["playerCount"] = "Player count must be positive"
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	if _, err := s.Users.GetByID(ctx, in.MainHostID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, FieldErrors{"mainHost": "Main host does not exist"}
		}
		return nil, err
	}

	g := &entity.Game{
		Name:         in.Name,
		Location:     in.Location,
		PlayerCount:  in.PlayerCount,
		Status:       entity.GameEnlisting,
		MainHostID:   in.MainHostID,
		WinnerCrowns: in.WinnerCrowns,
		WinnerRubies: in.WinnerRubies,
		LoserRubies:  in.LoserRubies,
		LoserStrikes: in.LoserStrikes,
	}
	if err := s.Games.Create(ctx, g); err != nil {
		return nil, err
	}
	if s.Search.Enabled() {
		s.Search.IndexGame(ctx, g)
	}
	return g, nil
}

// GamesOverview is the games landing page payload: recent games plus, for a
// logged-in viewer, the game their active character is in and the games
// they host.
type GamesOverview struct {
	Recent      []*entity.Game
	CurrentGame *entity.Game
	Hosting     []*entity.Game
}

func (s *GameService) Overview(ctx context.Context, viewerID string) (*GamesOverview, error) {
	recent, err := s.Games.ListRecent(ctx, 3)
	if err != nil {
		return nil, err
	}
	out := &GamesOverview{Recent: recent}
	if viewerID == "" {
		return out, nil
	}

	hosting, err := s.Games.ListByHost(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out.Hosting = hosting

	active, err := s.Characters.ActiveByOwner(ctx, viewerID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return out, nil
	case err != nil:
		return nil, err
	}
	if active.CurrentGameID != "" {
		g, err := s.Games.GetByID(ctx, active.CurrentGameID)
		if err == nil {
			out.CurrentGame = g
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return out, nil
}

// GameDetail is a single game plus a display summary of its host.
type GameDetail struct {
	Game *entity.Game
	Host *entity.User
}

func (s *GameService) GetGame(ctx context.Context, id string) (*GameDetail, error) {
	g, err := s.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	d := &GameDetail{Game: g}
	if g.MainHostID != "" {
		host, err := s.Users.GetByID(ctx, g.MainHostID)
		if err == nil {
			d.Host = host
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	return d, nil
}
