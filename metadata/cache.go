package metadata

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/rushteam/cinerank/core"
)

// GenreLookup 是打分核心看到的元数据接口：永远返回一个集合（可能为空），不返回错误。
type GenreLookup interface {
	Genres(ctx context.Context, title, year string) []string
}

// GenreCache 是一次运行内的类型查询缓存，由调用方显式创建并持有。
//
// 每个实例有独立的 RunID，key 形如 genres:{run}:{规范化片名}|{年份}，
// 多个实例共用同一个 Store（例如 Redis）也互不干扰。Close 会删除本实例写入的所有 key。
// 同一 key 的并发查询只会打到 Fetcher 一次。
type GenreCache struct {
	RunID string

	fetcher Fetcher
	store   core.Store
	ttl     int

	group singleflight.Group

	mu      sync.Mutex
	written map[string]struct{}
	hits    int
	misses  int
}

// NewGenreCache 创建一个新的运行级缓存。ttlSeconds <= 0 表示不过期（依赖 Close 清理）。
func NewGenreCache(fetcher Fetcher, store core.Store, ttlSeconds int) *GenreCache {
	return &GenreCache{
		RunID:   uuid.New().String()[:8],
		fetcher: fetcher,
		store:   store,
		ttl:     ttlSeconds,
		written: make(map[string]struct{}),
	}
}

func (c *GenreCache) key(title, year string) string {
	return "genres:" + c.RunID + ":" + core.NormalizeTitle(title) + "|" + year
}

// Genres 实现 GenreLookup。查询失败时记录日志并返回空集合，失败结果不写缓存。
func (c *GenreCache) Genres(ctx context.Context, title, year string) []string {
	key := c.key(title, year)

	if data, err := c.store.Get(ctx, key); err == nil {
		var genres []string
		if json.Unmarshal(data, &genres) == nil {
			c.count(true)
			return genres
		}
	} else if !core.IsStoreNotFound(err) {
		log.Debug().Err(err).Str("store", c.store.Name()).Msg("genre cache read failed")
	}
	c.count(false)

	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		genres, err := c.fetcher.Fetch(ctx, title, year)
		if err != nil {
			return nil, err
		}
		genres = core.GenreSet(genres)
		if genres == nil {
			genres = []string{}
		}
		if data, err := json.Marshal(genres); err == nil {
			if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
				log.Debug().Err(err).Str("store", c.store.Name()).Msg("genre cache write failed")
			} else {
				c.mu.Lock()
				c.written[key] = struct{}{}
				c.mu.Unlock()
			}
		}
		return genres, nil
	})
	if err != nil {
		log.Warn().Err(err).Str("title", title).Str("year", year).Msg("genre lookup failed, using empty set")
		return nil
	}
	return v.([]string)
}

func (c *GenreCache) count(hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}

// Stats 返回命中/未命中次数。
func (c *GenreCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Close 删除本实例写入的全部 key。Store 由调用方关闭。
func (c *GenreCache) Close(ctx context.Context) error {
	c.mu.Lock()
	keys := make([]string, 0, len(c.written))
	for k := range c.written {
		keys = append(keys, k)
	}
	c.written = make(map[string]struct{})
	c.mu.Unlock()

	return c.store.BatchDelete(ctx, keys)
}
