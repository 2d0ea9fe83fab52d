package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/droproute/droproute/internal/api/models"
)

// ServiceConfig holds configuration for the settings service.
type ServiceConfig struct {
	Repository Repository
	Logger     zerolog.Logger
	CacheTTL   time.Duration // How long to cache settings in memory
}

// Service provides route settings with a short-lived read cache. Settings
// are read on every route plan, so repository round trips are worth
// avoiding.
type Service struct {
	repo     Repository
	logger   zerolog.Logger
	cacheTTL time.Duration

	mu          sync.RWMutex
	cached      *Settings
	cacheExpiry time.Time
}

// NewService creates a new settings service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Minute
	}

	return &Service{
		repo:     cfg.Repository,
		logger:   cfg.Logger,
		cacheTTL: cacheTTL,
	}
}

// Get retrieves the current settings, falling back to defaults when nothing
// has been stored yet.
func (s *Service) Get(ctx context.Context) (*Settings, error) {
	if cached := s.getCached(); cached != nil {
		return cached, nil
	}

	stored, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			return Defaults(), nil
		}
		return nil, err
	}

	s.setCached(stored)
	return stored, nil
}

// Update applies a partial update and stores the result. Absent fields keep
// their current values.
func (s *Service) Update(ctx context.Context, input *models.RouteSettingsUpdateRequest) (*Settings, error) {
	if fieldErrors := validateUpdate(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	updated := *current
	applyUpdate(&updated, input)
	updated.UpdatedAt = time.Now()

	if err := s.repo.Put(ctx, &updated); err != nil {
		return nil, err
	}

	s.setCached(&updated)
	return &updated, nil
}

// InvalidateCache clears the cached settings, forcing a repository read on
// next access.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
	s.cacheExpiry = time.Time{}
}

func (s *Service) getCached() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil || time.Now().After(s.cacheExpiry) {
		return nil
	}

	cpy := *s.cached
	return &cpy
}

func (s *Service) setCached(settings *Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cpy := *settings
	s.cached = &cpy
	s.cacheExpiry = time.Now().Add(s.cacheTTL)
}

func applyUpdate(s *Settings, input *models.RouteSettingsUpdateRequest) {
	if input.OptimizeForShortestDistance != nil {
		s.OptimizeForShortestDistance = *input.OptimizeForShortestDistance
	}
	if input.ConsiderRealTimeTraffic != nil {
		s.ConsiderRealTimeTraffic = *input.ConsiderRealTimeTraffic
	}
	if input.AvoidHighways != nil {
		s.AvoidHighways = *input.AvoidHighways
	}
	if input.AvoidTolls != nil {
		s.AvoidTolls = *input.AvoidTolls
	}
	if input.MinimizeLeftTurns != nil {
		s.MinimizeLeftTurns = *input.MinimizeLeftTurns
	}
	if input.ReturnToStart != nil {
		s.ReturnToStart = *input.ReturnToStart
	}
	if input.OfflineMode != nil {
		s.OfflineMode = *input.OfflineMode
	}
	if input.StartingPoint != nil {
		s.StartingPoint = StartingPoint(*input.StartingPoint)
	}
	if input.CustomStartAddress != nil {
		if *input.CustomStartAddress == "" {
			s.CustomStartAddress = nil
		} else {
			s.CustomStartAddress = input.CustomStartAddress
		}
	}
	if input.TrafficProvider != nil {
		s.TrafficProvider = TrafficProvider(*input.TrafficProvider)
	}
}

func validateUpdate(input *models.RouteSettingsUpdateRequest) []models.FieldError {
	var errs []models.FieldError

	if input.StartingPoint != nil {
		switch StartingPoint(*input.StartingPoint) {
		case StartingPointCurrentLocation, StartingPointCustom:
		default:
			errs = append(errs, models.FieldError{Field: "startingPoint", Message: "must be one of CURRENT_LOCATION, CUSTOM"})
		}
	}

	if input.TrafficProvider != nil {
		switch TrafficProvider(*input.TrafficProvider) {
		case TrafficProviderNone, TrafficProviderOSRM, TrafficProviderCustom:
		default:
			errs = append(errs, models.FieldError{Field: "trafficProvider", Message: "must be one of NONE, OSRM, CUSTOM"})
		}
	}

	if input.CustomStartAddress != nil && len(*input.CustomStartAddress) > 300 {
		errs = append(errs, models.FieldError{Field: "customStartAddress", Message: "must be at most 300 characters"})
	}

	return errs
}

// ToAPI converts domain settings to the API model.
func ToAPI(s *Settings) models.RouteSettings {
	return models.RouteSettings{
		OptimizeForShortestDistance: s.OptimizeForShortestDistance,
		ConsiderRealTimeTraffic:     s.ConsiderRealTimeTraffic,
		AvoidHighways:               s.AvoidHighways,
		AvoidTolls:                  s.AvoidTolls,
		MinimizeLeftTurns:           s.MinimizeLeftTurns,
		ReturnToStart:               s.ReturnToStart,
		OfflineMode:                 s.OfflineMode,
		StartingPoint:               models.StartingPoint(s.StartingPoint),
		CustomStartAddress:          s.CustomStartAddress,
		TrafficProvider:             models.TrafficProvider(s.TrafficProvider),
		UpdatedAt:                   models.Timestamp(s.UpdatedAt),
	}
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []models.FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
