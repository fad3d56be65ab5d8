package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	DefaultNumPlayers          = 2
	DefaultMailboxSize         = 16
	DefaultSeatTokenTTLSeconds = 300
	DefaultTurnDurationSeconds = 60
	DefaultTickRate            = 5
	DefaultResultCollection    = "azool_results"
)

type GameConfig struct {
	NumPlayers  int `json:"num_players"`
	MailboxSize int `json:"mailbox_size"`
	// Seed fixes the bag shuffle when non-zero. Only useful for local testing.
	Seed                int64  `json:"seed"`
	SeatTokenTTLSeconds int    `json:"seat_token_ttl_seconds"`
	TurnDurationSeconds int    `json:"turn_duration_seconds"`
	TickRate            int    `json:"tick_rate"`
	ResultCollection    string `json:"result_collection"`
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// Default returns the configuration used when no file is present.
func Default() GameConfig {
	c := GameConfig{}
	c.applyDefaults()
	return c
}

func (c *GameConfig) applyDefaults() {
	if c.NumPlayers == 0 {
		c.NumPlayers = DefaultNumPlayers
	}
	if c.MailboxSize <= 0 {
		c.MailboxSize = DefaultMailboxSize
	}
	if c.SeatTokenTTLSeconds <= 0 {
		c.SeatTokenTTLSeconds = DefaultSeatTokenTTLSeconds
	}
	if c.TurnDurationSeconds <= 0 {
		c.TurnDurationSeconds = DefaultTurnDurationSeconds
	}
	if c.TickRate <= 0 {
		c.TickRate = DefaultTickRate
	}
	if c.ResultCollection == "" {
		c.ResultCollection = DefaultResultCollection
	}
}

// ParseGameConfig decodes raw JSON and fills unset fields with defaults.
func ParseGameConfig(data []byte) (*GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if c.NumPlayers != 0 && (c.NumPlayers < 2 || c.NumPlayers > 4) {
		return nil, fmt.Errorf("num_players must be between 2 and 4, got %d", c.NumPlayers)
	}
	c.applyDefaults()
	return &c, nil
}

// LoadGameConfig loads the game configuration from the given path.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read game config: %w", err)
			return
		}
		cfg, loadErr = ParseGameConfig(data)
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults when
// nothing was loaded.
func GetGameConfig() GameConfig {
	if cfg == nil {
		return Default()
	}
	return *cfg
}

func (c GameConfig) SeatTokenTTL() time.Duration {
	return time.Duration(c.SeatTokenTTLSeconds) * time.Second
}

func (c GameConfig) TurnDuration() time.Duration {
	return time.Duration(c.TurnDurationSeconds) * time.Second
}
