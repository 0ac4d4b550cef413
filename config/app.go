package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/cinerank/core"
	"github.com/rushteam/cinerank/metadata"
	"github.com/rushteam/cinerank/pkg/logging"
	"github.com/rushteam/cinerank/ratings"
)

// EnvPrefix 是环境变量前缀，层级之间用双下划线分隔：
// CINERANK_SCORING__TOP_N -> scoring.top_n
const EnvPrefix = "CINERANK_"

// ConfigPathEnvVar 指定配置文件路径。
const ConfigPathEnvVar = "CINERANK_CONFIG"

// CacheConfig 是类型元数据缓存的后端配置。
type CacheConfig struct {
	// Backend 取 memory 或 redis
	Backend   string        `koanf:"backend" validate:"oneof=memory redis"`
	RedisAddr string        `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `koanf:"redis_db" validate:"gte=0"`
	TTL       time.Duration `koanf:"ttl" validate:"gte=0"`
}

// LogConfig 对应 logging.Config 中可配置的部分。
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// AppConfig 是命令行工具的完整配置：打分策略 + 外部数据源 + 缓存 + 日志。
type AppConfig struct {
	Scoring    core.Policy         `koanf:"scoring"`
	TMDB       metadata.TMDBConfig `koanf:"tmdb"`
	Letterboxd ratings.Config      `koanf:"letterboxd"`
	Cache      CacheConfig         `koanf:"cache"`
	Log        LogConfig           `koanf:"log"`
}

// DefaultAppConfig 返回默认配置。
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Scoring:    core.DefaultPolicy(),
		TMDB:       metadata.DefaultTMDBConfig(),
		Letterboxd: ratings.DefaultConfig(),
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     time.Hour,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Logging 转换为 logging.Config。
func (c *AppConfig) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	cfg.Caller = c.Log.Caller
	return cfg
}

var validate = validator.New()

// Validate 校验字段取值与打分策略。
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Scoring.Validate()
}

// Load 按 默认值 < 配置文件 < 环境变量 的优先级加载配置。
// path 为空时读取 CINERANK_CONFIG；两者都为空则不读文件。
func Load(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultAppConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(ConfigPathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// envTransformFunc: CINERANK_TMDB__API_KEY -> tmdb.api_key
func envTransformFunc(key string) string {
	if key == ConfigPathEnvVar {
		return ""
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}
