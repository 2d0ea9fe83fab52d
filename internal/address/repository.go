package address

import "context"

// ListOptions contains options for listing addresses.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing addresses.
type ListResult struct {
	Items      []*Address
	NextCursor string
}

// Repository defines the interface for address data persistence.
type Repository interface {
	// Get retrieves an address by ID.
	// Returns ErrAddressNotFound if the address doesn't exist.
	Get(ctx context.Context, id string) (*Address, error)

	// List retrieves addresses with pagination, oldest first.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)

	// Create creates a new address.
	Create(ctx context.Context, addr *Address) error

	// Update updates an existing address.
	Update(ctx context.Context, addr *Address) error

	// Delete deletes an address by ID.
	Delete(ctx context.Context, id string) error
}
