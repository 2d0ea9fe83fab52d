package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/geocode"
)

// WarmJob walks the address book and pre-resolves coordinates into the
// geocode cache, so route planning does not pay the provider round trips.
type WarmJob struct {
	config    WarmConfig
	logger    zerolog.Logger
	addresses *address.Service
	geocoder  *geocode.Service

	metrics *WarmMetrics
}

// WarmMetrics tracks warm job statistics.
type WarmMetrics struct {
	mu sync.RWMutex

	// Counters
	TotalRuns          int64
	ResolvedAddresses  int64
	UnresolvedAddrs    int64

	// Timings
	LastRunAt       time.Time
	LastRunDuration time.Duration
	TotalDuration   time.Duration
}

// WarmJobConfig holds configuration for creating a WarmJob.
type WarmJobConfig struct {
	Config    WarmConfig
	Logger    zerolog.Logger
	Addresses *address.Service
	Geocoder  *geocode.Service
}

// NewWarmJob creates a new geocode warm job processor.
func NewWarmJob(cfg WarmJobConfig) *WarmJob {
	return &WarmJob{
		config:    cfg.Config.withDefaults(),
		logger:    cfg.Logger,
		addresses: cfg.Addresses,
		geocoder:  cfg.Geocoder,
		metrics:   &WarmMetrics{},
	}
}

// WarmResult contains the result of one warm run.
type WarmResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalAddresses int
	Resolved       int
	Unresolved     []string
}

// Run walks the address book and geocodes every entry. Unresolvable
// addresses are reported but never fail the run; the route planner drops
// them the same way at plan time.
func (j *WarmJob) Run(ctx context.Context) (*WarmResult, error) {
	startTime := time.Now()

	book, err := j.addresses.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	result := &WarmResult{
		StartTime:      startTime,
		TotalAddresses: len(book),
	}

	j.logger.Info().
		Int("total_addresses", result.TotalAddresses).
		Int("concurrency", j.config.Concurrency).
		Msg("starting geocode warm job")

	// Create work channels
	addrChan := make(chan string, len(book))
	resultsChan := make(chan addrResult, len(book))

	// Start workers
	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.warmWorker(ctx, addrChan, resultsChan)
		}()
	}

	// Send addresses to workers
	for _, a := range book {
		addrChan <- a.FullAddress
	}
	close(addrChan)

	// Wait for workers to complete
	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	// Collect results
	for ar := range resultsChan {
		if ar.resolved {
			result.Resolved++
		} else {
			result.Unresolved = append(result.Unresolved, ar.address)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("resolved", result.Resolved).
		Int("unresolved", len(result.Unresolved)).
		Msg("geocode warm job completed")

	return result, nil
}

type addrResult struct {
	address  string
	resolved bool
}

func (j *WarmJob) warmWorker(ctx context.Context, addrs <-chan string, results chan<- addrResult) {
	for a := range addrs {
		select {
		case <-ctx.Done():
			return
		default:
			results <- j.warmAddress(ctx, a)
		}
	}
}

func (j *WarmJob) warmAddress(ctx context.Context, fullAddress string) addrResult {
	addrCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	coord := j.geocoder.Geocode(addrCtx, fullAddress)
	return addrResult{
		address:  fullAddress,
		resolved: coord != nil,
	}
}

func (j *WarmJob) updateMetrics(result *WarmResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.ResolvedAddresses += int64(result.Resolved)
	j.metrics.UnresolvedAddrs += int64(len(result.Unresolved))
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WarmJob) GetMetrics() WarmMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return WarmMetrics{
		TotalRuns:         j.metrics.TotalRuns,
		ResolvedAddresses: j.metrics.ResolvedAddresses,
		UnresolvedAddrs:   j.metrics.UnresolvedAddrs,
		LastRunAt:         j.metrics.LastRunAt,
		LastRunDuration:   j.metrics.LastRunDuration,
		TotalDuration:     j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WarmJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_runs":           m.TotalRuns,
		"resolved_addresses":   m.ResolvedAddresses,
		"unresolved_addresses": m.UnresolvedAddrs,
		"last_run_at":          m.LastRunAt,
		"last_run_duration":    m.LastRunDuration.String(),
		"total_duration":       m.TotalDuration.String(),
	}
}
