package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/domain/entity"
	"github.com/ocmafia/server/internal/domain/repository"
	"github.com/ocmafia/server/pkg/helpers"
)

const (
	defaultFetchTake = 5
	maxFetchTake     = 50
	roleCacheTTL     = 10 * time.Minute
)

// FetchService backs the thin search-as-you-type endpoints. Users and games
// go through Elasticsearch when it is configured and fall back to Postgres
// prefix queries when it is not. Roles are a small static catalog cached in
// Redis.
type FetchService struct {
	Users      repository.UserRepository
	Roles      repository.RoleRepository
	Games      repository.GameRepository
	Characters repository.CharacterRepository
	Search     *SearchIndex
	Redis      *redis.Client
	Logger     *logrus.Logger
}

func NewFetchService(users repository.UserRepository, roles repository.RoleRepository,
	games repository.GameRepository, characters repository.CharacterRepository,
	search *SearchIndex, rdb *redis.Client, logger *logrus.Logger) *FetchService {
	return &FetchService{
		Users:      users,
		Roles:      roles,
		Games:      games,
		Characters: characters,
		Search:     search,
		Redis:      rdb,
		Logger:     logger,
	}
}

func clampTake(take int) int {
	if take <= 0 {
		return defaultFetchTake
	}
	if take > maxFetchTake {
		return maxFetchTake
	}
	return take
}

// UserFilter mirrors the query params of the users fetch endpoint: filter
// by id or username prefix, and opt into the fields to return.
type UserFilter struct {
	ID               string
	Username         string
	ReturnUsernames  bool
	ReturnAvatars    bool
	ReturnCharacters bool
	Take             int
}

// UserResult carries only the requested fields.
type UserResult struct {
	ID         string              `json:"id"`
	Username   string              `json:"username,omitempty"`
	Avatar     *AvatarResult       `json:"avatar,omitempty"`
	Characters []*entity.Character `json:"characters,omitempty"`
}

type AvatarResult struct {
	Type  entity.AvatarType `json:"avatarType"`
	Color string            `json:"avatarColor,omitempty"`
	URL   string            `json:"avatarUrl,omitempty"`
}

func (s *FetchService) FilteredUsers(ctx context.Context, f UserFilter) ([]*UserResult, error) {
	take := clampTake(f.Take)

	var users []*entity.User
	switch {
	case f.ID != "":
		u, err := s.Users.GetByID(ctx, f.ID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []*UserResult{}, nil
			}
			return nil, err
		}
		users = []*entity.User{u}
	case f.Username != "" && s.Search.Enabled():
		docs, err := s.Search.SearchUsers(ctx, f.Username, take)
		if err == nil {
			return s.usersFromDocs(ctx, docs, f)
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es user search failed, falling back to postgres")
		}
		fallthrough
	default:
		var err error
		users, err = s.Users.SearchByUsernamePrefix(ctx, f.Username, take)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*UserResult, 0, len(users))
	for _, u := range users {
		r, err := s.userResult(ctx, u.ID, u.Username, &u.Avatar, f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *FetchService) usersFromDocs(ctx context.Context, docs []map[string]any, f UserFilter) ([]*UserResult, error) {
	out := make([]*UserResult, 0, len(docs))
	for _, doc := range docs {
		id, _ := doc["id"].(string)
		if id == "" {
			continue
		}
		username, _ := doc["username"].(string)
		var avatar *entity.Avatar
		if av, ok := doc["avatar"].(map[string]any); ok {
			t, _ := av["avatarType"].(string)
			color, _ := av["avatarColor"].(string)
			url, _ := av["avatarUrl"].(string)
			avatar = &entity.Avatar{Type: entity.AvatarType(t), Color: color, URL: url}
		}
		r, err := s.userResult(ctx, id, username, avatar, f)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *FetchService) userResult(ctx context.Context, id, username string, avatar *entity.Avatar, f UserFilter) (*UserResult, error) {
	r := &UserResult{ID: id}
	if f.ReturnUsernames {
		r.Username = username
	}
	if f.ReturnAvatars && avatar != nil {
		r.Avatar = &AvatarResult{Type: avatar.Type, Color: avatar.Color, URL: avatar.URL}
	}
	if f.ReturnCharacters {
		chars, err := s.Characters.ListByOwner(ctx, id)
		if err != nil {
			return nil, err
		}
		r.Characters = chars
	}
	return r, nil
}

// FilteredRoles returns roles by id or name prefix. The whole result set is
// small, so prefix lookups are served from a short-lived Redis cache.
func (s *FetchService) FilteredRoles(ctx context.Context, id, name string) ([]*entity.Role, error) {
	if id != "" {
		role, err := s.Roles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []*entity.Role{}, nil
			}
			return nil, err
		}
		return []*entity.Role{role}, nil
	}

	cacheKey := "fetch:roles:" + name
	if s.Redis != nil {
		var cached []*entity.Role
		if hit, err := helpers.RedisGetJSON(ctx, s.Redis, cacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	roles, err := s.Roles.SearchByNamePrefix(ctx, name, defaultFetchTake)
	if err != nil {
		return nil, err
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, cacheKey, roles, roleCacheTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("role cache write failed")
		}
	}
	return roles, nil
}

// FilteredGames returns games by id or name prefix, preferring ES.
func (s *FetchService) FilteredGames(ctx context.Context, id, name string, take int) ([]*entity.Game, error) {
	take = clampTake(take)
	if id != "" {
		g, err := s.Games.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []*entity.Game{}, nil
			}
			return nil, err
		}
		return []*entity.Game{g}, nil
	}

	if s.Search.Enabled() {
		docs, err := s.Search.SearchGames(ctx, name, take)
		if err == nil {
			ids := make([]string, 0, len(docs))
			for _, doc := range docs {
				if gid, _ := doc["id"].(string); gid != "" {
					ids = append(ids, gid)
				}
			}
			out := make([]*entity.Game, 0, len(ids))
			for _, gid := range ids {
				g, err := s.Games.GetByID(ctx, gid)
				if err != nil {
					if errors.Is(err, repository.ErrNotFound) {
						continue // index lag; skip stale hits
					}
					return nil, err
				}
				out = append(out, g)
			}
			return out, nil
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("es game search failed, falling back to postgres")
		}
	}

	return s.Games.SearchByNamePrefix(ctx, name, take)
}
