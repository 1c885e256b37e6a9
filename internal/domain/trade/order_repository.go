package trade

import "context"

// OrderRepository defines the persistence contract for orders.
type OrderRepository interface {
	// Save creates an order together with its items.
	Save(ctx context.Context, order *Order) error

	// ExistsByFingerprint reports whether a row with this fingerprint was
	// already ingested.
	ExistsByFingerprint(ctx context.Context, fingerprint string) (bool, error)

	// Count returns the number of stored orders.
	Count(ctx context.Context) (int64, error)
}

// ReferenceRepository resolves order reference names to rows, creating
// missing rows on first mention. Lookups are case-insensitive.
type ReferenceRepository interface {
	GetOrCreateOrderStatus(ctx context.Context, name string) (*OrderStatus, error)
	GetOrCreatePaymentStatus(ctx context.Context, name string) (*PaymentStatus, error)
	GetOrCreateDeliveryMethod(ctx context.Context, name string) (*DeliveryMethod, error)
}
