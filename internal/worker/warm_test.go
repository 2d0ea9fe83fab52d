package worker_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droproute/droproute/internal/address"
	"github.com/droproute/droproute/internal/api/models"
	"github.com/droproute/droproute/internal/geo"
	"github.com/droproute/droproute/internal/geocode"
	"github.com/droproute/droproute/internal/worker"
)

// stubProvider resolves every address except ones containing "nowhere".
type stubProvider struct {
	mu    sync.Mutex
	calls []string
}

func (p *stubProvider) Geocode(_ context.Context, addr string) (geo.Coordinate, error) {
	p.mu.Lock()
	p.calls = append(p.calls, addr)
	p.mu.Unlock()

	if strings.Contains(addr, "nowhere") {
		return geo.Coordinate{}, errors.New("no results")
	}
	return geo.Coordinate{Lat: 52.37, Lon: 4.90}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func newTestBook(t *testing.T, fullAddresses ...string) *address.Service {
	t.Helper()

	svc := address.NewService(address.NewInMemoryRepository())
	for _, fa := range fullAddresses {
		_, err := svc.Create(context.Background(), &models.AddressCreateRequest{FullAddress: fa})
		require.NoError(t, err)
	}
	return svc
}

func newTestJob(t *testing.T, cfg worker.WarmConfig, addresses *address.Service, provider geocode.Provider) *worker.WarmJob {
	t.Helper()

	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})

	return worker.NewWarmJob(worker.WarmJobConfig{
		Config:    cfg,
		Logger:    zerolog.Nop(),
		Addresses: addresses,
		Geocoder:  geocoder,
	})
}

func TestDefaultWarmConfig(t *testing.T) {
	cfg := worker.DefaultWarmConfig()

	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestWarmJob_Run_EmptyBook(t *testing.T) {
	job := newTestJob(t, worker.WarmConfig{}, newTestBook(t), &stubProvider{})

	result, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalAddresses)
	assert.Equal(t, 0, result.Resolved)
	assert.Empty(t, result.Unresolved)
}

func TestWarmJob_Run_ResolvesAll(t *testing.T) {
	book := newTestBook(t,
		"10 Downing Street, London",
		"221B Baker Street, London",
		"4 Privet Drive, Little Whinging",
	)
	provider := &stubProvider{}
	job := newTestJob(t, worker.WarmConfig{Concurrency: 1, Timeout: time.Second}, book, provider)

	result, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalAddresses)
	assert.Equal(t, 3, result.Resolved)
	assert.Empty(t, result.Unresolved)
	assert.Equal(t, 3, provider.callCount())
	assert.Greater(t, result.Duration, time.Duration(0))
}

func TestWarmJob_Run_ReportsUnresolved(t *testing.T) {
	book := newTestBook(t,
		"10 Downing Street, London",
		"middle of nowhere",
	)
	job := newTestJob(t, worker.WarmConfig{Concurrency: 1, Timeout: time.Second}, book, &stubProvider{})

	result, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalAddresses)
	assert.Equal(t, 1, result.Resolved)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "middle of nowhere", result.Unresolved[0])
}

func TestWarmJob_Run_WithConcurrency(t *testing.T) {
	addrs := make([]string, 10)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("%d Oak St, Springfield", i+1)
	}
	provider := &stubProvider{}
	job := newTestJob(t, worker.WarmConfig{Concurrency: 3, Timeout: time.Second}, newTestBook(t, addrs...), provider)

	result, err := job.Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalAddresses)
	assert.Equal(t, 10, result.Resolved)
}

func TestWarmJob_Run_PopulatesCache(t *testing.T) {
	book := newTestBook(t, "10 Downing Street, London")
	provider := &stubProvider{}
	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: provider,
		Logger:   zerolog.Nop(),
	})
	job := worker.NewWarmJob(worker.WarmJobConfig{
		Logger:    zerolog.Nop(),
		Addresses: book,
		Geocoder:  geocoder,
	})

	_, err := job.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, provider.callCount())

	// Second lookup of the same string must come from the cache.
	coord := geocoder.Geocode(context.Background(), "10 Downing Street, London")
	require.NotNil(t, coord)
	assert.Equal(t, 1, provider.callCount())
}

func TestWarmJob_Run_ContextCancellation(t *testing.T) {
	addrs := make([]string, 100)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("%d Elm St, Springfield", i+1)
	}
	job := newTestJob(t, worker.WarmConfig{Concurrency: 1, Timeout: 100 * time.Millisecond}, newTestBook(t, addrs...), &stubProvider{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := job.Run(ctx)

	// Should complete (even if not all addresses processed)
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestWarmJob_GetMetrics(t *testing.T) {
	book := newTestBook(t, "10 Downing Street, London", "middle of nowhere")
	job := newTestJob(t, worker.WarmConfig{Concurrency: 1, Timeout: time.Second}, book, &stubProvider{})

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	metrics := job.GetMetrics()
	assert.Equal(t, int64(1), metrics.TotalRuns)
	assert.Equal(t, int64(1), metrics.ResolvedAddresses)
	assert.Equal(t, int64(1), metrics.UnresolvedAddrs)
	assert.NotZero(t, metrics.LastRunAt)
	assert.Greater(t, metrics.LastRunDuration, time.Duration(0))
}

func TestWarmJob_MetricsSnapshot(t *testing.T) {
	job := newTestJob(t, worker.WarmConfig{}, newTestBook(t, "10 Downing Street, London"), &stubProvider{})

	_, err := job.Run(context.Background())
	require.NoError(t, err)

	snapshot := job.MetricsSnapshot()

	assert.Contains(t, snapshot, "total_runs")
	assert.Contains(t, snapshot, "resolved_addresses")
	assert.Contains(t, snapshot, "unresolved_addresses")
	assert.Contains(t, snapshot, "last_run_at")
	assert.Contains(t, snapshot, "last_run_duration")
}

// BenchmarkWarmJob_Run benchmarks the warm job over a small book.
func BenchmarkWarmJob_Run(b *testing.B) {
	svc := address.NewService(address.NewInMemoryRepository())
	_, err := svc.Create(context.Background(), &models.AddressCreateRequest{FullAddress: "10 Downing Street, London"})
	if err != nil {
		b.Fatal(err)
	}

	geocoder := geocode.NewService(geocode.ServiceConfig{
		Provider: &stubProvider{},
		Logger:   zerolog.Nop(),
	})
	job := worker.NewWarmJob(worker.WarmJobConfig{
		Logger:    zerolog.Nop(),
		Addresses: svc,
		Geocoder:  geocoder,
	})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = job.Run(context.Background())
	}
}
