package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// GameConfig carries the deployment-level tuning of a match.
type GameConfig struct {
	// Demo shortens games for client development builds.
	Demo bool `json:"demo"`
	// DevCardEndCount overrides how many bought cards trigger the last
	// round. Only honoured when Demo is set; zero keeps the standard count.
	DevCardEndCount int `json:"dev_card_end_count"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the game configuration from the given path. A missing
// file leaves the defaults in place; a malformed one is an error.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				cfg = &GameConfig{}
				return
			}
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}

		var c GameConfig
		if err := json.Unmarshal(data, &c); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal game config: %w", err)
			return
		}
		cfg = &c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return &GameConfig{}
	}
	return cfg
}

// EndCount resolves the effective last-round card count, 0 meaning the
// standard one.
func (c *GameConfig) EndCount() int {
	if c.Demo && c.DevCardEndCount > 0 {
		return c.DevCardEndCount
	}
	return 0
}
