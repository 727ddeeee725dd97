package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ServeConfig represents serve mode settings
type ServeConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config represents a generation profile. Everything is optional; absent
// fields fall back to the built-in reference tables and defaults.
type Config struct {
	mu sync.RWMutex

	// Components replaces the built-in component list when non-empty.
	Components []string `yaml:"components,omitempty"`
	// Weights overrides per-level selection weights, keyed by level name.
	Weights map[string]int `yaml:"weights,omitempty"`
	// Templates appends message templates to a level's pool.
	Templates map[string][]string `yaml:"templates,omitempty"`
	// Layout is the default layout name (standard or bracket).
	Layout string `yaml:"layout,omitempty"`
	// Interval is the base delay between lines in follow/serve mode,
	// a Go duration string like "100ms".
	Interval string      `yaml:"interval,omitempty"`
	Serve    ServeConfig `yaml:"serve"`
}

// DefaultConfig returns a default profile
func DefaultConfig() *Config {
	return &Config{
		Layout:   "standard",
		Interval: "100ms",
		Serve: ServeConfig{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// Load loads a profile from a file. A missing file is not an error; the
// defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return cfg, nil
}

// Save saves the profile to a file
func (c *Config) Save(path string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	return nil
}

// GetComponents returns a copy of the component override list
func (c *Config) GetComponents() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	components := make([]string, len(c.Components))
	copy(components, c.Components)
	return components
}

// GetWeights returns a copy of the weight overrides
func (c *Config) GetWeights() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	weights := make(map[string]int, len(c.Weights))
	for k, v := range c.Weights {
		weights[k] = v
	}
	return weights
}

// GetTemplates returns a copy of the extra template pools
func (c *Config) GetTemplates() map[string][]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	templates := make(map[string][]string, len(c.Templates))
	for k, v := range c.Templates {
		pool := make([]string, len(v))
		copy(pool, v)
		templates[k] = pool
	}
	return templates
}

// GetLayout returns the default layout name
func (c *Config) GetLayout() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Layout
}

// GetInterval returns the follow/serve interval, falling back to 100ms when
// unset or unparsable.
func (c *Config) GetInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// GetServe returns serve mode settings
func (c *Config) GetServe() ServeConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Serve
}

// Watch starts watching the profile file for changes
func (c *Config) Watch(path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					newCfg, err := Load(path)
					if err == nil {
						c.mu.Lock()
						c.Components = newCfg.Components
						c.Weights = newCfg.Weights
						c.Templates = newCfg.Templates
						c.Layout = newCfg.Layout
						c.Interval = newCfg.Interval
						c.Serve = newCfg.Serve
						c.mu.Unlock()
						if onChange != nil {
							onChange()
						}
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Profile watcher error: %v\n", err)
			}
		}
	}()

	return watcher.Add(path)
}
