package partner

import "context"

// ClientRepository defines the persistence contract for client identities.
// Lookups use normalized keys; callers normalize before querying.
type ClientRepository interface {
	// FindByPhone finds a client by normalized phone number.
	// Returns shared.ErrNotFound if no client matches.
	FindByPhone(ctx context.Context, phone string) (*Client, error)

	// FindByHandle finds a client by a normalized social handle.
	// Returns shared.ErrNotFound if no client matches.
	FindByHandle(ctx context.Context, kind HandleKind, handle string) (*Client, error)

	// Save creates or updates a client.
	Save(ctx context.Context, client *Client) error

	// Count returns the number of stored clients.
	Count(ctx context.Context) (int64, error)
}
