package reconcile

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/domain/shared"
)

// ClientResolver deduplicates client identities across rows. The first key
// that resolves wins: normalized phone, then each social handle in order.
// Matched clients get their empty contact fields backfilled from the row.
// Lookup caches are owned by the run.
type ClientResolver struct {
	repo   partner.ClientRepository
	logger *zap.Logger
	stats  *Stats

	byPhone  map[string]*partner.Client
	byHandle map[partner.HandleKind]map[string]*partner.Client
}

// NewClientResolver creates a resolver with empty caches.
func NewClientResolver(repo partner.ClientRepository, logger *zap.Logger, stats *Stats) *ClientResolver {
	byHandle := make(map[partner.HandleKind]map[string]*partner.Client, len(partner.HandleKinds))
	for _, kind := range partner.HandleKinds {
		byHandle[kind] = make(map[string]*partner.Client)
	}
	return &ClientResolver{
		repo:     repo,
		logger:   logger,
		stats:    stats,
		byPhone:  make(map[string]*partner.Client),
		byHandle: byHandle,
	}
}

// Resolve finds the client a row's contact fields belong to, creating one
// when nothing matches. Rows with no contact keys at all still get a client
// so their orders have an owner.
func (r *ClientResolver) Resolve(ctx context.Context, info partner.ContactInfo) (*partner.Client, error) {
	client, err := r.lookup(ctx, info)
	if err != nil {
		return nil, err
	}

	if client != nil {
		r.stats.ClientsMatched++
		if client.Backfill(info) {
			r.stats.ClientsBackfilled++
			if err := r.repo.Save(ctx, client); err != nil {
				return nil, err
			}
		}
		r.index(client)
		return client, nil
	}

	client = partner.NewClient(info)
	if err := r.repo.Save(ctx, client); err != nil {
		return nil, err
	}
	r.stats.ClientsCreated++
	r.logger.Debug("Created client", zap.String("name", client.FullName()))
	r.index(client)
	return client, nil
}

func (r *ClientResolver) lookup(ctx context.Context, info partner.ContactInfo) (*partner.Client, error) {
	if phone := info.NormalizedPhone(); phone != "" {
		if client, ok := r.byPhone[phone]; ok {
			return client, nil
		}
		client, err := r.repo.FindByPhone(ctx, phone)
		if err == nil {
			return client, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}

	for _, kind := range partner.HandleKinds {
		handle := info.NormalizedHandle(kind)
		if handle == "" {
			continue
		}
		if client, ok := r.byHandle[kind][handle]; ok {
			return client, nil
		}
		client, err := r.repo.FindByHandle(ctx, kind, handle)
		if err == nil {
			return client, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	return nil, nil
}

// index registers the client under every key it currently carries, so later
// rows naming any of them resolve from the cache.
func (r *ClientResolver) index(client *partner.Client) {
	if client.Phone != "" {
		r.byPhone[client.Phone] = client
	}
	for _, kind := range partner.HandleKinds {
		if handle := client.HandleValue(kind); handle != "" {
			r.byHandle[kind][handle] = client
		}
	}
}
