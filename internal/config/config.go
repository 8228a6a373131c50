package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Config holds the host's runtime configuration.
type Config struct {
	// TCPAddr is the listen address for raw TCP clients.
	TCPAddr string `json:"tcp_addr"`
	// HTTPAddr serves the WebSocket endpoint and the results API.
	HTTPAddr string `json:"http_addr"`
	// WinThreshold is the partnership score that ends the match.
	WinThreshold int `json:"win_threshold"`
	// HumanSeats is how many of the four seats wait for remote players;
	// the rest are filled with AI opponents.
	HumanSeats int `json:"human_seats"`
	// AIMoveDelayMS paces consecutive AI actions so remote players can
	// follow the table. Purely presentational; the engine never sleeps.
	AIMoveDelayMS int `json:"ai_move_delay_ms"`
	// DatabasePath locates the sqlite results store.
	DatabasePath string `json:"database_path"`
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TCPAddr:       ":5000",
		HTTPAddr:      ":8080",
		WinThreshold:  41,
		HumanSeats:    1,
		AIMoveDelayMS: 350,
		DatabasePath:  "./fourhundred.db",
	}
}

// Load reads the configuration file once. An empty path yields defaults.
func Load(path string) (*Config, error) {
	loadOnce.Do(func() {
		c := Default()
		if path == "" {
			cfg = c
			return
		}
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read config: %w", err)
			return
		}
		if err := json.Unmarshal(data, c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal config: %w", err)
			return
		}
		cfg = c
	})
	return cfg, loadErr
}

// AIMoveDelay returns the AI pacing delay as a duration.
func (c *Config) AIMoveDelay() time.Duration {
	return time.Duration(c.AIMoveDelayMS) * time.Millisecond
}
