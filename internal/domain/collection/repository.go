package collection

import "context"

// Repository defines the interface for pass collection data access.
type Repository interface {
	Create(ctx context.Context, c *Collection) error
	Get(ctx context.Context, id string) (*Collection, error)
	Update(ctx context.Context, c *Collection) error
	ListActive(ctx context.Context) ([]*Collection, error)

	// IncrementIssuedCount bumps the issued counter by one. The counter
	// never decreases.
	IncrementIssuedCount(ctx context.Context, id string) error
}
