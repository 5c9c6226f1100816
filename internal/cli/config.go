package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/pipeline"
)

// Config is the optional config file. Every key may be omitted.
//
//	dpi = 300
//	jpeg_quality = 90
//	margin_mm = 6
//	rasterizer = "rsvg"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
type Config struct {
	DPI         float64 `toml:"dpi"`
	JPEGQuality int     `toml:"jpeg_quality"`
	Margin      float64 `toml:"margin_mm"`
	Gap         float64 `toml:"gap_mm"`
	PageGap     float64 `toml:"page_gap_mm"`
	Rasterizer  string  `toml:"rasterizer"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Assets AssetsConfig `toml:"assets"`
}

// CacheConfig selects the artifact cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file (default), redis, none
	Dir           string `toml:"dir"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ServerConfig configures `labelsheet serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// AssetsConfig controls how image and logo references are loaded.
type AssetsConfig struct {
	AllowRemote bool          `toml:"allow_remote"`
	CacheTTL    time.Duration `toml:"cache_ttl"`
}

const defaultServerAddr = "127.0.0.1:8080"

// defaultConfigPath returns $XDG_CONFIG_HOME/labelsheet/config.toml, falling
// back to ~/.config.
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// loadConfig reads path. A missing file is fine unless the user named it
// explicitly.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	switch cfg.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown cache backend %q", path, cfg.Cache.Backend)
	}
	if cfg.Cache.Backend == "redis" && cfg.Cache.RedisAddr == "" {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: cache.redis_addr is required for the redis backend", path)
	}
	return cfg, nil
}

// applyConfig copies config values into opts for every option whose flag
// was not set on the command line.
func applyConfig(cmd *cobra.Command, cfg Config, opts *pipeline.Options) {
	changed := cmd.Flags().Changed
	if !changed("dpi") && cfg.DPI != 0 {
		opts.DPI = cfg.DPI
	}
	if !changed("jpeg-quality") && cfg.JPEGQuality != 0 {
		opts.JPEGQuality = cfg.JPEGQuality
	}
	if !changed("margin") && cfg.Margin != 0 {
		opts.Margin = cfg.Margin
	}
	if !changed("gap") && cfg.Gap != 0 {
		opts.Gap = cfg.Gap
	}
	if !changed("page-gap") && cfg.PageGap != 0 {
		opts.PageGap = cfg.PageGap
	}
	if !changed("rasterizer") && cfg.Rasterizer != "" {
		opts.Rasterizer = cfg.Rasterizer
	}
}
