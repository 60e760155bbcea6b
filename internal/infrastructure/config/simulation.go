package config

import "time"

// SimulationConfig holds the fixed-step loop settings used when a scenario
// does not override them
type SimulationConfig struct {
	// TickLength is the simulated seconds per tick
	TickLength float64 `mapstructure:"tick_length" yaml:"tick_length" validate:"gt=0"`

	// Ticks is how many ticks `simulate` runs by default
	Ticks int `mapstructure:"ticks" yaml:"ticks" validate:"min=1"`

	// NodeSearchRadius bounds automatic resource node searches; 0 is unlimited
	NodeSearchRadius float64 `mapstructure:"node_search_radius" yaml:"node_search_radius" validate:"min=0"`

	// RealtimeRate is ticks per wall-clock second with --realtime
	RealtimeRate float64 `mapstructure:"realtime_rate" yaml:"realtime_rate" validate:"gt=0"`

	// MaxQueueSize caps orders per producer when a scenario leaves it unset
	MaxQueueSize int `mapstructure:"max_queue_size" yaml:"max_queue_size" validate:"min=0"`

	// DedupWindow drops repeated event log messages, in simulated time
	DedupWindow time.Duration `mapstructure:"dedup_window" yaml:"dedup_window" validate:"min=0"`
}
