package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/ocmafia/server/internal/domain/entity"
)

// SearchIndex mirrors users and games into Elasticsearch for the
// search-as-you-type fetch endpoints. Indexing is best-effort: a failure is
// logged and never fails the triggering request. A nil SearchIndex (ES not
// configured) disables itself; callers fall back to Postgres.
type SearchIndex struct {
	ES         *elasticsearch.Client
	UsersIndex string
	GamesIndex string
	Logger     *logrus.Logger
}

func NewSearchIndex(es *elasticsearch.Client, usersIndex, gamesIndex string, logger *logrus.Logger) *SearchIndex {
	if es == nil {
		return nil
	}
	return &SearchIndex{ES: es, UsersIndex: usersIndex, GamesIndex: gamesIndex, Logger: logger}
}

func (s *SearchIndex) Enabled() bool {
	return s != nil && s.ES != nil
}

func (s *SearchIndex) IndexUser(ctx context.Context, u *entity.User) {
	if !s.Enabled() {
		return
	}
	doc := map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"tagline":  u.Tagline,
		"avatar": map[string]any{
			"avatarType":  u.Avatar.Type,
			"avatarColor": u.Avatar.Color,
			"avatarUrl":   u.Avatar.URL,
		},
		"crowns":     u.Crowns,
		"rubies":     u.Rubies,
		"updated_at": u.UpdatedAt.Format(time.RFC3339Nano),
	}
	s.index(ctx, s.UsersIndex, u.ID, doc)
}

func (s *SearchIndex) IndexGame(ctx context.Context, g *entity.Game) {
	if !s.Enabled() {
		return
	}
	doc := map[string]any{
		"id":           g.ID,
		"name":         g.Name,
		"location":     g.Location,
		"status":       g.Status,
		"player_count": g.PlayerCount,
		"main_host_id": g.MainHostID,
		"updated_at":   g.UpdatedAt.Format(time.RFC3339Nano),
	}
	s.index(ctx, s.GamesIndex, g.ID, doc)
}

func (s *SearchIndex) index(ctx context.Context, index, id string, doc map[string]any) {
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: index, DocumentID: id, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("index", index).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"index": index, "status": res.Status()}).Warn("es index response error")
	}
}

// SearchUsers runs a match_phrase_prefix query over usernames and returns
// the raw documents.
func (s *SearchIndex) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.search(ctx, s.UsersIndex, "username", q, size)
}

// SearchGames runs a match_phrase_prefix query over game names.
func (s *SearchIndex) SearchGames(ctx context.Context, q string, size int) ([]map[string]any, error) {
	return s.search(ctx, s.GamesIndex, "name", q, size)
}

func (s *SearchIndex) search(ctx context.Context, index, field, q string, size int) ([]map[string]any, error) {
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"match_phrase_prefix": map[string]any{
				field: q,
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(c),
		s.ES.Search.WithIndex(index),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
