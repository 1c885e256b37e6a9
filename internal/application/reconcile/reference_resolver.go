package reconcile

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/trade"
)

// ReferenceResolver memoizes get-or-create lookups for reference names over
// one pass. The same brand appears on thousands of rows; without the memo
// every row would round-trip to the database. Caches are owned by the run.
type ReferenceResolver struct {
	catalogRefs catalog.ReferenceRepository
	tradeRefs   trade.ReferenceRepository

	types      map[string]uuid.UUID
	subtypes   map[string]uuid.UUID
	brands     map[string]uuid.UUID
	colors     map[string]uuid.UUID
	countries  map[string]uuid.UUID
	conditions map[string]uuid.UUID
	statuses   map[string]uuid.UUID

	orderStatuses   map[string]uuid.UUID
	paymentStatuses map[string]uuid.UUID
	deliveries      map[string]uuid.UUID
}

// NewReferenceResolver creates a resolver with empty caches.
func NewReferenceResolver(catalogRefs catalog.ReferenceRepository, tradeRefs trade.ReferenceRepository) *ReferenceResolver {
	return &ReferenceResolver{
		catalogRefs:     catalogRefs,
		tradeRefs:       tradeRefs,
		types:           make(map[string]uuid.UUID),
		subtypes:        make(map[string]uuid.UUID),
		brands:          make(map[string]uuid.UUID),
		colors:          make(map[string]uuid.UUID),
		countries:       make(map[string]uuid.UUID),
		conditions:      make(map[string]uuid.UUID),
		statuses:        make(map[string]uuid.UUID),
		orderStatuses:   make(map[string]uuid.UUID),
		paymentStatuses: make(map[string]uuid.UUID),
		deliveries:      make(map[string]uuid.UUID),
	}
}

func cacheKey(name string) string {
	return strings.ToLower(catalog.NewReferenceName(name))
}

func resolve(ctx context.Context, cache map[string]uuid.UUID, name string,
	fetch func(ctx context.Context, name string) (uuid.UUID, error)) (*uuid.UUID, error) {

	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, nil
	}
	key := cacheKey(name)
	if id, ok := cache[key]; ok {
		return &id, nil
	}
	id, err := fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	cache[key] = id
	return &id, nil
}

// TypeID resolves a product type name, nil for blank.
func (r *ReferenceResolver) TypeID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.types, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateType(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// SubtypeID resolves a subtype name, nil for blank.
func (r *ReferenceResolver) SubtypeID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.subtypes, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateSubtype(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// BrandID resolves a brand name, nil for blank.
func (r *ReferenceResolver) BrandID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.brands, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateBrand(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// ColorID resolves a color name, nil for blank.
func (r *ReferenceResolver) ColorID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.colors, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateColor(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// CountryID resolves an origin name. Unrecognized names map to the unknown
// sentinel country; recognized reports whether the name was known.
func (r *ReferenceResolver) CountryID(ctx context.Context, name string) (id *uuid.UUID, recognized bool, err error) {
	name = catalog.NewReferenceName(name)
	if name == "" {
		return nil, true, nil
	}
	code := catalog.CountryCode(name)
	recognized = code != catalog.UnknownCountryCode
	if !recognized {
		name = catalog.UnknownCountryName
	}
	id, err = resolve(ctx, r.countries, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateCountry(ctx, name, code)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
	return id, recognized, err
}

// ConditionID resolves a condition name, nil for blank.
func (r *ReferenceResolver) ConditionID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.conditions, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateCondition(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// ProductStatusID resolves a product status name, nil for blank.
func (r *ReferenceResolver) ProductStatusID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.statuses, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.catalogRefs.GetOrCreateStatus(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// OrderStatusID resolves a canonical order status name.
func (r *ReferenceResolver) OrderStatusID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.orderStatuses, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.tradeRefs.GetOrCreateOrderStatus(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// PaymentStatusID resolves a canonical payment status name.
func (r *ReferenceResolver) PaymentStatusID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.paymentStatuses, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.tradeRefs.GetOrCreatePaymentStatus(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}

// DeliveryMethodID resolves a canonical delivery method name.
func (r *ReferenceResolver) DeliveryMethodID(ctx context.Context, name string) (*uuid.UUID, error) {
	return resolve(ctx, r.deliveries, name, func(ctx context.Context, name string) (uuid.UUID, error) {
		row, err := r.tradeRefs.GetOrCreateDeliveryMethod(ctx, name)
		if err != nil {
			return uuid.Nil, err
		}
		return row.ID, nil
	})
}
