package main

import (
	"context"
	"net/http"

	"github.com/rushteam/cinerank/config"
	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/metadata"
	"github.com/rushteam/cinerank/store"
)

// newStore 按配置创建缓存后端。
func newStore(ctx context.Context, cfg config.CacheConfig) (core.Store, error) {
	if cfg.Backend == "redis" {
		return store.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB)
	}
	return store.NewMemoryStore(), nil
}

// genreSession 持有一次运行的类型查询链路：TMDB -> GenreCache -> Enricher。
type genreSession struct {
	store    core.Store
	cache    *metadata.GenreCache
	enricher *metadata.Enricher
}

func newGenreSession(ctx context.Context, cfg *config.AppConfig) (*genreSession, error) {
	if cfg.TMDB.APIKey == "" {
		return nil, core.MissingPrecondition(core.ModuleMetadata,
			"TMDB api key is not set (tmdb.api_key or CINERANK_TMDB__API_KEY)")
	}
	st, err := newStore(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	tmdb := metadata.NewTMDB(cfg.TMDB, &http.Client{Timeout: cfg.TMDB.Timeout})
	cache := metadata.NewGenreCache(tmdb, st, int(cfg.Cache.TTL.Seconds()))
	return &genreSession{
		store:    st,
		cache:    cache,
		enricher: &metadata.Enricher{Lookup: cache, Workers: metadata.DefaultWorkers},
	}, nil
}

// Close 删除本次运行写入的缓存并关闭后端。
func (s *genreSession) Close(ctx context.Context) error {
	err := s.cache.Close(ctx)
	if cerr := s.store.Close(); err == nil {
		err = cerr
	}
	return err
}
