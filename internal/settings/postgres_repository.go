package settings

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// settingsRowID is the fixed primary key of the single settings row.
const settingsRowID = 1

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL settings repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves the stored settings bundle.
func (r *PostgresRepository) Get(ctx context.Context) (*Settings, error) {
	query := `
		SELECT
			optimize_shortest_distance, consider_real_time_traffic,
			avoid_highways, avoid_tolls, minimize_left_turns,
			return_to_start, offline_mode, starting_point,
			custom_start_address, traffic_provider, updated_at
		FROM route_settings
		WHERE id = $1
	`

	var s Settings
	err := r.pool.QueryRow(ctx, query, settingsRowID).Scan(
		&s.OptimizeForShortestDistance,
		&s.ConsiderRealTimeTraffic,
		&s.AvoidHighways,
		&s.AvoidTolls,
		&s.MinimizeLeftTurns,
		&s.ReturnToStart,
		&s.OfflineMode,
		&s.StartingPoint,
		&s.CustomStartAddress,
		&s.TrafficProvider,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}

	return &s, nil
}

// Put stores the settings bundle.
func (r *PostgresRepository) Put(ctx context.Context, s *Settings) error {
	query := `
		INSERT INTO route_settings (
			id, optimize_shortest_distance, consider_real_time_traffic,
			avoid_highways, avoid_tolls, minimize_left_turns,
			return_to_start, offline_mode, starting_point,
			custom_start_address, traffic_provider, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			optimize_shortest_distance = EXCLUDED.optimize_shortest_distance,
			consider_real_time_traffic = EXCLUDED.consider_real_time_traffic,
			avoid_highways = EXCLUDED.avoid_highways,
			avoid_tolls = EXCLUDED.avoid_tolls,
			minimize_left_turns = EXCLUDED.minimize_left_turns,
			return_to_start = EXCLUDED.return_to_start,
			offline_mode = EXCLUDED.offline_mode,
			starting_point = EXCLUDED.starting_point,
			custom_start_address = EXCLUDED.custom_start_address,
			traffic_provider = EXCLUDED.traffic_provider,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		settingsRowID,
		s.OptimizeForShortestDistance,
		s.ConsiderRealTimeTraffic,
		s.AvoidHighways,
		s.AvoidTolls,
		s.MinimizeLeftTurns,
		s.ReturnToStart,
		s.OfflineMode,
		s.StartingPoint,
		s.CustomStartAddress,
		s.TrafficProvider,
		s.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
