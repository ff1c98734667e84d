package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gathr-app/gathr-rankings/gathr/database/repositories"
	"github.com/gathr-app/gathr-rankings/gathr/ranking"
	lru "github.com/hashicorp/golang-lru"
)

const (
	defaultCacheSize = 1024
	maxPageSize      = 200
)

// Board is a flat, rank-ordered leaderboard page for one (category, period).
type Board struct {
	Category string                        `json:"category"`
	Period   string                        `json:"period"`
	Page     int                           `json:"page"`
	Limit    int                           `json:"limit"`
	Entries  []repositories.LeaderboardRow `json:"entries"`
}

// Overview groups the top entries by category, then period.
type Overview map[string]map[string][]repositories.LeaderboardRow

// Response is the dual-shape read result: a single board when both category
// and period were given, an overview otherwise.
type Response struct {
	Board    *Board   `json:"board,omitempty"`
	Overview Overview `json:"overview,omitempty"`
}

// Service is the leaderboard read path. It only reads persisted ranking rows;
// a failed recomputation never surfaces here — readers keep seeing the last
// fully-written set. An LRU cache fronts the store and is invalidated per
// (category, period) after each successful replacement.
type Service struct {
	rankings repositories.RankingRepository
	cache    *lru.Cache
	pageSize int
}

func NewService(rankings repositories.RankingRepository, cacheSize, defaultPageSize int) *Service {
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}
	if defaultPageSize <= 0 {
		defaultPageSize = 50
	}
	cache, _ := lru.New(cacheSize)
	return &Service{
		rankings: rankings,
		cache:    cache,
		pageSize: defaultPageSize,
	}
}

// Get returns either a flat board or a grouped overview, depending on which
// of category and period are present.
func (s *Service) Get(ctx context.Context, category, period string, limit, page int) (*Response, error) {
	if category != "" {
		if _, err := ranking.ParseCategory(category); err != nil {
			return nil, err
		}
	}
	if limit <= 0 {
		limit = s.pageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	if category != "" && period != "" {
		return s.getBoard(ctx, category, period, limit, page)
	}
	return s.getOverview(ctx, category, period, limit)
}

func (s *Service) getBoard(ctx context.Context, category, period string, limit, page int) (*Response, error) {
	key := fmt.Sprintf("board|%s|%s|%d|%d", category, period, limit, page)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Response), nil
	}

	rows, err := s.rankings.GetPage(ctx, category, period, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repositories.LeaderboardRow{}
	}

	resp := &Response{Board: &Board{
		Category: category,
		Period:   period,
		Page:     page,
		Limit:    limit,
		Entries:  rows,
	}}
	s.cache.Add(key, resp)
	return resp, nil
}

func (s *Service) getOverview(ctx context.Context, category, period string, limit int) (*Response, error) {
	key := fmt.Sprintf("overview|%s|%s|%d", category, period, limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*Response), nil
	}

	pairs, err := s.rankings.ListPairs(ctx)
	if err != nil {
		return nil, err
	}

	overview := make(Overview)
	for _, p := range pairs {
		if category != "" && p.Category != category {
			continue
		}
		if period != "" && p.Period != period {
			continue
		}

		rows, err := s.rankings.GetPage(ctx, p.Category, p.Period, limit, 0)
		if err != nil {
			return nil, err
		}
		if _, ok := overview[p.Category]; !ok {
			overview[p.Category] = make(map[string][]repositories.LeaderboardRow)
		}
		overview[p.Category][p.Period] = rows
	}

	resp := &Response{Overview: overview}
	s.cache.Add(key, resp)
	return resp, nil
}

// Invalidate drops cached pages for one (category, period) pair along with
// every overview, called by the orchestrator after a successful replacement.
func (s *Service) Invalidate(category, period string) {
	prefix := fmt.Sprintf("board|%s|%s|", category, period)
	removed := 0
	for _, key := range s.cache.Keys() {
		k, ok := key.(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(k, prefix) || strings.HasPrefix(k, "overview|") {
			s.cache.Remove(key)
			removed++
		}
	}
	if removed > 0 {
		slog.Debug("Leaderboard cache invalidated",
			slog.String("type", "sys"),
			slog.String("category", category),
			slog.String("period", period),
			slog.Int("pages", removed))
	}
}
