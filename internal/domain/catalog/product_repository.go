package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the persistence contract for catalog entries.
type ProductRepository interface {
	// FindByNumber finds the entry with exactly this catalog number.
	// Returns shared.ErrNotFound if no entry matches.
	FindByNumber(ctx context.Context, number string) (*Product, error)

	// FindByID finds an entry by its identifier. Returns shared.ErrNotFound
	// if no entry matches.
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAllByBase finds every entry whose catalog number equals the base
	// or the base with a "(n)" suffix, suffix ascending.
	FindAllByBase(ctx context.Context, base string) ([]*Product, error)

	// FindAll returns every catalog entry.
	FindAll(ctx context.Context) ([]*Product, error)

	// NumberExists reports whether an entry with this exact number exists.
	NumberExists(ctx context.Context, number string) (bool, error)

	// Save creates or updates an entry.
	Save(ctx context.Context, product *Product) error

	// Delete removes an entry.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllExcept removes every entry whose ID is not in keep and
	// returns the number removed.
	DeleteAllExcept(ctx context.Context, keep []uuid.UUID) (int64, error)

	// Count returns the number of stored entries.
	Count(ctx context.Context) (int64, error)
}

// ReferenceRepository resolves reference names to rows, creating missing
// rows on first mention. Lookups are case-insensitive.
type ReferenceRepository interface {
	GetOrCreateType(ctx context.Context, name string) (*ProductType, error)
	GetOrCreateSubtype(ctx context.Context, name string) (*Subtype, error)
	GetOrCreateBrand(ctx context.Context, name string) (*Brand, error)
	GetOrCreateColor(ctx context.Context, name string) (*Color, error)
	GetOrCreateCountry(ctx context.Context, name, code string) (*Country, error)
	GetOrCreateCondition(ctx context.Context, name string) (*Condition, error)
	GetOrCreateStatus(ctx context.Context, name string) (*ProductStatus, error)
}
