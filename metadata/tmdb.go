// Package metadata 是类型元数据协作方：按片名（可选年份）查询类型集合。
// 查询失败或没有匹配时返回空集合，不向打分核心抛错。
package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rushteam/cinerank/core"
)

// Fetcher 查询一部电影的类型，没有匹配时返回 (nil, nil)。
type Fetcher interface {
	Fetch(ctx context.Context, title, year string) ([]string, error)
}

// TMDBConfig 是 TMDB 客户端配置。
type TMDBConfig struct {
	BaseURL string        `koanf:"base_url" validate:"required,url"`
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RatePerSecond / Burst 控制请求速率，RatePerSecond <= 0 表示不限速
	RatePerSecond float64 `koanf:"rate_per_second" validate:"gte=0"`
	Burst         int     `koanf:"burst" validate:"gte=0"`

	// 连续失败 FailureThreshold 次后熔断 BreakerTimeout
	FailureThreshold uint32        `koanf:"failure_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
}

// DefaultTMDBConfig 返回默认配置（不含 APIKey）。
func DefaultTMDBConfig() TMDBConfig {
	return TMDBConfig{
		BaseURL:          "https://api.themoviedb.org/3",
		Timeout:          10 * time.Second,
		RatePerSecond:    40,
		Burst:            20,
		FailureThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// TMDB 通过 /search/movie 找到第一条结果，再用 /movie/{id} 读取类型名。
type TMDB struct {
	cfg     TMDBConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]string]
}

type searchResponse struct {
	Results []struct {
		ID int64 `json:"id"`
	} `json:"results"`
}

type detailsResponse struct {
	Genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// NewTMDB 创建客户端，httpClient 为 nil 时按 cfg.Timeout 新建。
func NewTMDB(cfg TMDBConfig, httpClient *http.Client) *TMDB {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})
	return &TMDB{
		cfg:     cfg,
		client:  httpClient,
		limiter: limiter,
		breaker: breaker,
	}
}

// Fetch 实现 Fetcher。
func (c *TMDB) Fetch(ctx context.Context, title, year string) ([]string, error) {
	if strings.TrimSpace(title) == "" {
		return nil, nil
	}
	return c.breaker.Execute(func() ([]string, error) {
		id, found, err := c.search(ctx, title, year)
		if err != nil || !found {
			return nil, err
		}
		return c.details(ctx, id)
	})
}

func (c *TMDB) search(ctx context.Context, title, year string) (int64, bool, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	q.Set("query", title)
	if year != "" {
		q.Set("year", year)
	}
	var resp searchResponse
	if err := c.get(ctx, "/search/movie", q, &resp); err != nil {
		return 0, false, err
	}
	if len(resp.Results) == 0 {
		return 0, false, nil
	}
	return resp.Results[0].ID, true, nil
}

func (c *TMDB) details(ctx context.Context, id int64) ([]string, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.APIKey)
	var resp detailsResponse
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), q, &resp); err != nil {
		return nil, err
	}
	genres := make([]string, 0, len(resp.Genres))
	for _, g := range resp.Genres {
		genres = append(genres, g.Name)
	}
	return core.GenreSet(genres), nil
}

func (c *TMDB) get(ctx context.Context, path string, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &core.DomainError{Module: core.ModuleMetadata, Code: core.ErrorCodeUnavailable, Message: "tmdb request " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &core.DomainError{
			Module:  core.ModuleMetadata,
			Code:    core.ErrorCodeUnavailable,
			Message: fmt.Sprintf("tmdb %s: status %d", path, resp.StatusCode),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
