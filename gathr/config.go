package gathr

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
	DB       DBConfig       `toml:"db"`
	Rankings RankingsConfig `toml:"rankings"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	// Requests per minute allowed on the recompute trigger endpoint.
	RecomputeRatePerMinute int `toml:"recompute_rate_per_minute"`
}

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

type RankingsConfig struct {
	// Minutes between scheduled recomputation runs. 0 disables the scheduler.
	IntervalMinutes int `toml:"interval_minutes"`
	// Hard deadline for one full orchestrator run, in seconds.
	RunTimeoutSeconds int `toml:"run_timeout_seconds"`
	// How many (category, period) pairs may compute concurrently.
	Parallelism int `toml:"parallelism"`
	// Size of the leaderboard read cache, in pages.
	CacheSize int `toml:"cache_size"`
	// Default page size for leaderboard reads.
	DefaultPageSize int `toml:"default_page_size"`
}

func (c RankingsConfig) ParallelismOrDefault() int {
	if c.Parallelism <= 0 {
		return 3
	}
	return c.Parallelism
}

func (c RankingsConfig) PageSizeOrDefault() int {
	if c.DefaultPageSize <= 0 {
		return 50
	}
	return c.DefaultPageSize
}
