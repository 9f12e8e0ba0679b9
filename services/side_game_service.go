package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sidegames-golf/sidegames/logger"
	"github.com/sidegames-golf/sidegames/models"
	"github.com/sidegames-golf/sidegames/repositories"
	"github.com/sidegames-golf/sidegames/sessions"
	"github.com/sidegames-golf/sidegames/sidegames"
)

const (
	catalogCacheKey = "side_games:catalog"
	catalogCacheTTL = 5 * time.Minute
)

// SideGameService — каталог побочных игр. Список кэшируется: он читается на каждом
// дашборде и при любой операции с корзиной.
type SideGameService interface {
	List(ctx context.Context) ([]models.SideGame, error)
	GetByKey(ctx context.Context, key string) (*models.SideGame, error)
	Upsert(ctx context.Context, games []models.SideGame) error
	Invalidate(ctx context.Context) error
}

type sideGameService struct {
	repo  repositories.SideGameRepository
	cache sessions.Cache
	log   *slog.Logger
}

func NewSideGameService(repo repositories.SideGameRepository, cache sessions.Cache, log *slog.Logger) SideGameService {
	return &sideGameService{
		repo:  repo,
		cache: cache,
		log:   log.With(slog.String("service", "side_games")),
	}
}

func (s *sideGameService) List(ctx context.Context) ([]models.SideGame, error) {
	var games []models.SideGame
	err := s.cache.Get(ctx, catalogCacheKey, &games)
	if err == nil {
		return games, nil
	}
	if !errors.Is(err, sessions.ErrCacheMiss) {
		s.log.Warn("catalog cache read failed", logger.Err(err))
	}

	games, err = s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list side games: %w", err)
	}
	if err := s.cache.Set(ctx, catalogCacheKey, games, catalogCacheTTL); err != nil {
		s.log.Warn("catalog cache write failed", logger.Err(err))
	}
	return games, nil
}

func (s *sideGameService) GetByKey(ctx context.Context, key string) (*models.SideGame, error) {
	game, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrSideGameNotFound) {
			return nil, ErrSideGameNotFound
		}
		return nil, fmt.Errorf("failed to get side game %q: %w", key, err)
	}
	return game, nil
}

// Upsert записывает игры каталога и сбрасывает кэш.
func (s *sideGameService) Upsert(ctx context.Context, games []models.SideGame) error {
	for i := range games {
		if err := s.repo.Upsert(ctx, &games[i]); err != nil {
			return fmt.Errorf("failed to upsert side game %q: %w", games[i].Key, err)
		}
	}
	return s.Invalidate(ctx)
}

func (s *sideGameService) Invalidate(ctx context.Context) error {
	if err := s.cache.Delete(ctx, catalogCacheKey); err != nil {
		return fmt.Errorf("failed to invalidate side game cache: %w", err)
	}
	return nil
}

// catalogIndex — каталог по ключу и по нормализованному ключу.
type catalogIndex struct {
	ordered    []models.SideGame
	byKey      map[string]models.SideGame
	normalized map[string]string
}

func newCatalogIndex(games []models.SideGame) catalogIndex {
	idx := catalogIndex{
		ordered:    games,
		byKey:      make(map[string]models.SideGame, len(games)),
		normalized: make(map[string]string, len(games)),
	}
	for _, g := range games {
		idx.byKey[g.Key] = g
		idx.normalized[sidegames.NormalizeKey(g.Key)] = g.Key
	}
	return idx
}

// resolve находит ключ каталога по точному или нормализованному совпадению.
func (c catalogIndex) resolve(key string) (string, bool) {
	if _, ok := c.byKey[key]; ok {
		return key, true
	}
	k, ok := c.normalized[sidegames.NormalizeKey(key)]
	return k, ok
}
