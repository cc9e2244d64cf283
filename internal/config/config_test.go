package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func resetConfig() {
	cfg = nil
	loadErr = nil
	loadOnce = sync.Once{}
}

func TestLoadGameConfigMissingFileUsesDefaults(t *testing.T) {
	resetConfig()
	if err := LoadGameConfig(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	c := GetGameConfig()
	if c.Demo || c.DevCardEndCount != 0 {
		t.Fatalf("config = %+v, want defaults", c)
	}
}

func TestLoadGameConfigReadsFile(t *testing.T) {
	resetConfig()
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{"demo":true,"dev_card_end_count":3}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := LoadGameConfig(path); err != nil {
		t.Fatalf("LoadGameConfig: %v", err)
	}
	c := GetGameConfig()
	if !c.Demo || c.DevCardEndCount != 3 {
		t.Fatalf("config = %+v", c)
	}
}

func TestLoadGameConfigMalformed(t *testing.T) {
	resetConfig()
	path := filepath.Join(t.TempDir(), "game_config.json")
	if err := os.WriteFile(path, []byte(`{demo}`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := LoadGameConfig(path); err == nil {
		t.Fatalf("malformed config accepted")
	}
}

func TestEndCount(t *testing.T) {
	tests := []struct {
		name string
		cfg  GameConfig
		want int
	}{
		{"DemoWithOverride", GameConfig{Demo: true, DevCardEndCount: 2}, 2},
		{"DemoWithoutOverride", GameConfig{Demo: true}, 0},
		{"OverrideWithoutDemo", GameConfig{DevCardEndCount: 2}, 0},
		{"Defaults", GameConfig{}, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.cfg.EndCount(); got != test.want {
				t.Fatalf("EndCount() = %d, want %d", got, test.want)
			}
		})
	}
}
