package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete risk-watcher configuration.
type Config struct {
	Account  AccountConfig  `json:"account" yaml:"account"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Watchers WatchersConfig `json:"watchers" yaml:"watchers"`
	Journal  JournalConfig  `json:"journal" yaml:"journal"`
	Replay   ReplayConfig   `json:"replay,omitempty" yaml:"replay,omitempty"`
}

// AccountConfig contains the capital constraints.
type AccountConfig struct {
	Allocation      float64 `json:"allocation" yaml:"allocation"`
	MaxPositionSize float64 `json:"max_position_size,omitempty" yaml:"max_position_size,omitempty"`
}

// FeedConfig contains the price feed parameters.
type FeedConfig struct {
	BucketSize   string  `json:"bucket_size,omitempty" yaml:"bucket_size,omitempty"` // e.g. "10s", "500ms"
	InitialPrice float64 `json:"initial_price,omitempty" yaml:"initial_price,omitempty"`
}

// ParseBucketSize converts the bucket size string to a time.Duration.
// Empty means the feed default.
func (fc FeedConfig) ParseBucketSize() (time.Duration, error) {
	if fc.BucketSize == "" {
		return 0, nil
	}
	return time.ParseDuration(fc.BucketSize)
}

// WatchersConfig selects the active watchers; a zero threshold disables
// that watcher. Drawdown and percentage stop-loss are fractions, the
// absolute stop-loss is in currency units.
type WatchersConfig struct {
	MaxDrawdown      float64 `json:"max_drawdown,omitempty" yaml:"max_drawdown,omitempty"`
	AbsStopLoss      float64 `json:"abs_stop_loss,omitempty" yaml:"abs_stop_loss,omitempty"`
	PercStopLoss     float64 `json:"perc_stop_loss,omitempty" yaml:"perc_stop_loss,omitempty"`
	ExitPositionMode string  `json:"exit_position_mode,omitempty" yaml:"exit_position_mode,omitempty"`
}

// JournalConfig contains journaling parameters. Type "none" disables
// journaling entirely.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	AbortsFile string `json:"aborts_file,omitempty" yaml:"aborts_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// ReplayConfig scripts the price ticks and orders fed through the stack
// by the run command.
type ReplayConfig struct {
	Steps []ReplayStep `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// ReplayStep is one scripted event: a tick, an order, or both (the tick
// applies first). Delay is how long to wait before the event, e.g. "1s".
type ReplayStep struct {
	Delay string     `json:"delay,omitempty" yaml:"delay,omitempty"`
	Price float64    `json:"price,omitempty" yaml:"price,omitempty"`
	Force bool       `json:"force,omitempty" yaml:"force,omitempty"`
	Order *OrderStep `json:"order,omitempty" yaml:"order,omitempty"`
}

// OrderStep is a scripted order; negative amounts sell.
type OrderStep struct {
	Amount   float64 `json:"amount" yaml:"amount"`
	Price    float64 `json:"price" yaml:"price"`
	Leverage float64 `json:"leverage,omitempty" yaml:"leverage,omitempty"`
}

// ParseDelay converts the delay string to time.Duration.
func (rs ReplayStep) ParseDelay() (time.Duration, error) {
	if rs.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(rs.Delay)
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.Allocation <= 0 {
		return fmt.Errorf("account.allocation must be positive")
	}
	if c.Account.MaxPositionSize < 0 {
		return fmt.Errorf("account.max_position_size cannot be negative")
	}
	if _, err := c.Feed.ParseBucketSize(); err != nil {
		return fmt.Errorf("feed.bucket_size: %w", err)
	}
	if c.Feed.InitialPrice < 0 {
		return fmt.Errorf("feed.initial_price cannot be negative")
	}
	if c.Watchers.MaxDrawdown < 0 || c.Watchers.MaxDrawdown >= 1 {
		return fmt.Errorf("watchers.max_drawdown must be a fraction in [0, 1)")
	}
	if c.Watchers.AbsStopLoss < 0 {
		return fmt.Errorf("watchers.abs_stop_loss cannot be negative")
	}
	if c.Watchers.PercStopLoss < 0 || c.Watchers.PercStopLoss > 1 {
		return fmt.Errorf("watchers.perc_stop_loss must be a fraction in [0, 1]")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.EquityFile == "" || c.Journal.AbortsFile == "" {
			return fmt.Errorf("journal equity_file and aborts_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	for i, step := range c.Replay.Steps {
		if _, err := step.ParseDelay(); err != nil {
			return fmt.Errorf("replay.steps[%d].delay: %w", i, err)
		}
		if step.Price < 0 {
			return fmt.Errorf("replay.steps[%d].price cannot be negative", i)
		}
		if step.Order != nil && step.Order.Amount == 0 {
			return fmt.Errorf("replay.steps[%d].order.amount cannot be zero", i)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			Allocation:      10000,
			MaxPositionSize: 1,
		},
		Feed: FeedConfig{
			BucketSize: "10s",
		},
		Watchers: WatchersConfig{
			MaxDrawdown:      0.2,
			PercStopLoss:     0.1,
			ExitPositionMode: "close-at-market",
		},
		Journal: JournalConfig{
			Type:       "csv",
			EquityFile: "./equity.csv",
			AbortsFile: "./aborts.csv",
		},
	}
}
