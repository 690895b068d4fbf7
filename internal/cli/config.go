package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/termdiag/pkg/cache"
	"github.com/matzehuels/termdiag/pkg/graph"
)

// Config is the optional TOML configuration file. Flags override it.
//
//	[render]
//	ascii = true
//	max_width = 120
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[serve]
//	addr = ":8080"
type Config struct {
	Render graph.RenderOptions `toml:"render"`
	Cache  cache.Config        `toml:"cache"`
	Serve  ServeConfig         `toml:"serve"`
}

// ServeConfig configures the HTTP render API.
type ServeConfig struct {
	Addr    string   `toml:"addr"`
	Timeout duration `toml:"timeout"`
}

// duration decodes TOML strings such as "10s".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Render: graph.DefaultRenderOptions(),
		Cache:  cache.Config{Backend: cache.BackendFile},
		Serve:  ServeConfig{Addr: ":8080", Timeout: duration{10 * time.Second}},
	}
}

// configPath returns the config file location using XDG standard
// (~/.config/termdiag/config.toml).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// loadConfig reads path, or the default location when path is empty.
// A missing default file is not an error; a missing explicit file is.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return DefaultConfig(), nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if keys := md.Undecoded(); len(keys) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %s", path, keys[0])
	}
	if err := cfg.Render.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/termdiag/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
