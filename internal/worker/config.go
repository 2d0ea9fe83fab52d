// Package worker provides background job processing for DropRoute.
package worker

import (
	"time"
)

// WarmConfig holds configuration for the geocode warm job.
type WarmConfig struct {
	// Concurrency is the number of concurrent geocode lookups.
	// Default: 3. Nominatim's usage policy is unfriendly to bursts, keep
	// this low against the public instance.
	Concurrency int

	// Timeout is the timeout for each geocode lookup.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultWarmConfig returns the default warm job configuration.
func DefaultWarmConfig() WarmConfig {
	return WarmConfig{
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

// withDefaults fills zero-valued fields with defaults.
func (c WarmConfig) withDefaults() WarmConfig {
	def := DefaultWarmConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
