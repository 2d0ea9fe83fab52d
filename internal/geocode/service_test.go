package geocode

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/droproute/droproute/internal/geo"
)

// mockProvider is a mock geocoding provider for testing.
type mockProvider struct {
	coord     geo.Coordinate
	err       error
	callCount atomic.Int32
}

func (m *mockProvider) Geocode(ctx context.Context, address string) (geo.Coordinate, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return geo.Coordinate{}, m.err
	}
	return m.coord, nil
}

func (m *mockProvider) Name() string { return "mock" }

func TestService_Geocode_Success(t *testing.T) {
	provider := &mockProvider{coord: geo.Coordinate{Lat: 37.80, Lon: -122.40}}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	coord := service.Geocode(context.Background(), "500 Embarcadero, San Francisco")

	require.NotNil(t, coord)
	assert.Equal(t, 37.80, coord.Lat)
	assert.Equal(t, -122.40, coord.Lon)
}

func TestService_Geocode_CachesByExactString(t *testing.T) {
	provider := &mockProvider{coord: geo.Coordinate{Lat: 37.80, Lon: -122.40}}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	first := service.Geocode(context.Background(), "500 Embarcadero")
	second := service.Geocode(context.Background(), "500 Embarcadero")

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
	assert.Equal(t, int32(1), provider.callCount.Load(), "second lookup should hit the cache")

	// No normalization: a different casing is a different key.
	service.Geocode(context.Background(), "500 embarcadero")
	assert.Equal(t, int32(2), provider.callCount.Load())
}

func TestService_Geocode_NoMatchReturnsNil(t *testing.T) {
	provider := &mockProvider{err: ErrNoMatch}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	assert.Nil(t, service.Geocode(context.Background(), "nowhere"))
}

func TestService_Geocode_ProviderFailureReturnsNil(t *testing.T) {
	provider := &mockProvider{err: errors.New("connection reset")}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	assert.Nil(t, service.Geocode(context.Background(), "12 Main St"))
}

func TestService_Geocode_FailureIsNotCached(t *testing.T) {
	provider := &mockProvider{err: ErrNoMatch}
	cache := NewMemoryCache()
	service := NewService(ServiceConfig{Provider: provider, Cache: cache, Logger: zerolog.Nop()})

	service.Geocode(context.Background(), "nowhere")
	service.Geocode(context.Background(), "nowhere")

	assert.Equal(t, int32(2), provider.callCount.Load(), "misses must not be cached")
	assert.Equal(t, 0, cache.Len())
}

func TestService_Geocode_EmptyAddress(t *testing.T) {
	provider := &mockProvider{coord: geo.Coordinate{Lat: 1, Lon: 1}}
	service := NewService(ServiceConfig{Provider: provider, Logger: zerolog.Nop()})

	assert.Nil(t, service.Geocode(context.Background(), ""))
	assert.Equal(t, int32(0), provider.callCount.Load())
}
