package config

import (
	"time"

	"github.com/spf13/viper"
)

// DraftConfiguration type defines the in-progress draft store configurations
type DraftConfiguration struct {
	TTL           time.Duration
	DebounceDelay time.Duration
	SweepInterval time.Duration
}

// DraftConfig sets the draft store configuration
func DraftConfig() *DraftConfiguration {
	viper.SetDefault("DRAFT_TTL_HOURS", 720) // 30 days
	viper.SetDefault("DRAFT_DEBOUNCE_DELAY_MS", 2000)
	viper.SetDefault("DRAFT_SWEEP_INTERVAL_MINUTES", 10)

	return &DraftConfiguration{
		TTL:           time.Duration(viper.GetInt("DRAFT_TTL_HOURS")) * time.Hour,
		DebounceDelay: time.Duration(viper.GetInt("DRAFT_DEBOUNCE_DELAY_MS")) * time.Millisecond,
		SweepInterval: time.Duration(viper.GetInt("DRAFT_SWEEP_INTERVAL_MINUTES")) * time.Minute,
	}
}
