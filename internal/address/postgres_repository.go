package address

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL address repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves an address by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Address, error) {
	query := `
		SELECT
			id, full_address, time_window, exact_delivery_time,
			priority, special_instructions, created_at, updated_at
		FROM addresses
		WHERE id = $1
	`

	var addr Address
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&addr.ID,
		&addr.FullAddress,
		&addr.TimeWindow,
		&addr.ExactDeliveryTime,
		&addr.Priority,
		&addr.SpecialInstructions,
		&addr.CreatedAt,
		&addr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	return &addr, nil
}

// List retrieves addresses oldest-first with pagination. Creation order is
// the order the user entered addresses, which route planning treats as the
// input order.
func (r *PostgresRepository) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT
			id, full_address, time_window, exact_delivery_time,
			priority, special_instructions, created_at, updated_at
		FROM addresses
		WHERE ($1 = '' OR created_at > (SELECT created_at FROM addresses WHERE id = $1))
		ORDER BY created_at ASC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, opts.Cursor, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*Address
	for rows.Next() {
		var addr Address
		err := rows.Scan(
			&addr.ID,
			&addr.FullAddress,
			&addr.TimeWindow,
			&addr.ExactDeliveryTime,
			&addr.Priority,
			&addr.SpecialInstructions,
			&addr.CreatedAt,
			&addr.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, &addr)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: addresses}
	if len(addresses) > limit {
		result.Items = addresses[:limit]
		result.NextCursor = addresses[limit-1].ID
	}

	return result, nil
}

// Create creates a new address.
func (r *PostgresRepository) Create(ctx context.Context, addr *Address) error {
	query := `
		INSERT INTO addresses (
			id, full_address, time_window, exact_delivery_time,
			priority, special_instructions, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		addr.ID,
		addr.FullAddress,
		addr.TimeWindow,
		addr.ExactDeliveryTime,
		addr.Priority,
		addr.SpecialInstructions,
		addr.CreatedAt,
		addr.UpdatedAt,
	)
	return err
}

// Update updates an existing address.
func (r *PostgresRepository) Update(ctx context.Context, addr *Address) error {
	query := `
		UPDATE addresses SET
			full_address = $2,
			time_window = $3,
			exact_delivery_time = $4,
			priority = $5,
			special_instructions = $6,
			updated_at = $7
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		addr.ID,
		addr.FullAddress,
		addr.TimeWindow,
		addr.ExactDeliveryTime,
		addr.Priority,
		addr.SpecialInstructions,
		addr.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrAddressNotFound
	}

	return nil
}

// Delete deletes an address by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM addresses WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
