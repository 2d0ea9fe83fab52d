package settings

import "context"

// Repository defines the interface for settings persistence.
type Repository interface {
	// Get retrieves the stored settings bundle.
	// Returns ErrSettingsNotFound when nothing has been stored yet.
	Get(ctx context.Context) (*Settings, error)

	// Put stores the settings bundle, replacing any previous one.
	Put(ctx context.Context, s *Settings) error
}
