package reconcile

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/domain/trade"
)

// In-memory repository fakes. The reconciliation passes exercise real
// lookup and ordering behavior, so these implement the repository contracts
// faithfully instead of stubbing single calls.

type memClientRepo struct {
	clients map[uuid.UUID]*partner.Client
}

func newMemClientRepo() *memClientRepo {
	return &memClientRepo{clients: make(map[uuid.UUID]*partner.Client)}
}

func (r *memClientRepo) FindByPhone(_ context.Context, phone string) (*partner.Client, error) {
	for _, c := range r.clients {
		if c.Phone == phone {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memClientRepo) FindByHandle(_ context.Context, kind partner.HandleKind, handle string) (*partner.Client, error) {
	for _, c := range r.clients {
		if c.HandleValue(kind) == handle {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memClientRepo) Save(_ context.Context, client *partner.Client) error {
	r.clients[client.ID] = client
	return nil
}

func (r *memClientRepo) Count(context.Context) (int64, error) {
	return int64(len(r.clients)), nil
}

type memProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByNumber(_ context.Context, number string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.Number == number {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAllByBase(_ context.Context, base string) ([]*catalog.Product, error) {
	var out []*catalog.Product
	for _, p := range r.products {
		if p.BaseNumber() == base {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SuffixIndex() < out[j].SuffixIndex()
	})
	return out, nil
}

func (r *memProductRepo) FindAll(context.Context) ([]*catalog.Product, error) {
	out := make([]*catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *memProductRepo) NumberExists(_ context.Context, number string) (bool, error) {
	for _, p := range r.products {
		if p.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.products[product.ID] = product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) DeleteAllExcept(_ context.Context, keep []uuid.UUID) (int64, error) {
	keepSet := make(map[uuid.UUID]struct{}, len(keep))
	for _, id := range keep {
		keepSet[id] = struct{}{}
	}
	var removed int64
	for id := range r.products {
		if _, ok := keepSet[id]; !ok {
			delete(r.products, id)
			removed++
		}
	}
	return removed, nil
}

func (r *memProductRepo) Count(context.Context) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *memProductRepo) mustByNumber(number string) *catalog.Product {
	p, err := r.FindByNumber(context.Background(), number)
	if err != nil {
		return nil
	}
	return p
}

type memCatalogRefs struct {
	types      map[string]*catalog.ProductType
	subtypes   map[string]*catalog.Subtype
	brands     map[string]*catalog.Brand
	colors     map[string]*catalog.Color
	countries  map[string]*catalog.Country
	conditions map[string]*catalog.Condition
	statuses   map[string]*catalog.ProductStatus
}

func newMemCatalogRefs() *memCatalogRefs {
	return &memCatalogRefs{
		types:      make(map[string]*catalog.ProductType),
		subtypes:   make(map[string]*catalog.Subtype),
		brands:     make(map[string]*catalog.Brand),
		colors:     make(map[string]*catalog.Color),
		countries:  make(map[string]*catalog.Country),
		conditions: make(map[string]*catalog.Condition),
		statuses:   make(map[string]*catalog.ProductStatus),
	}
}

func refKey(name string) string { return strings.ToLower(name) }

func (r *memCatalogRefs) GetOrCreateType(_ context.Context, name string) (*catalog.ProductType, error) {
	if row, ok := r.types[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.ProductType{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.types[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateSubtype(_ context.Context, name string) (*catalog.Subtype, error) {
	if row, ok := r.subtypes[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.Subtype{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.subtypes[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateBrand(_ context.Context, name string) (*catalog.Brand, error) {
	if row, ok := r.brands[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.Brand{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.brands[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateColor(_ context.Context, name string) (*catalog.Color, error) {
	if row, ok := r.colors[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.Color{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.colors[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateCountry(_ context.Context, name, code string) (*catalog.Country, error) {
	if row, ok := r.countries[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.Country{BaseEntity: shared.NewBaseEntity(), Name: name, Code: code}
	r.countries[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateCondition(_ context.Context, name string) (*catalog.Condition, error) {
	if row, ok := r.conditions[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.Condition{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.conditions[refKey(name)] = row
	return row, nil
}

func (r *memCatalogRefs) GetOrCreateStatus(_ context.Context, name string) (*catalog.ProductStatus, error) {
	if row, ok := r.statuses[refKey(name)]; ok {
		return row, nil
	}
	row := &catalog.ProductStatus{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.statuses[refKey(name)] = row
	return row, nil
}

type memTradeRefs struct {
	orderStatuses   map[string]*trade.OrderStatus
	paymentStatuses map[string]*trade.PaymentStatus
	deliveries      map[string]*trade.DeliveryMethod
}

func newMemTradeRefs() *memTradeRefs {
	return &memTradeRefs{
		orderStatuses:   make(map[string]*trade.OrderStatus),
		paymentStatuses: make(map[string]*trade.PaymentStatus),
		deliveries:      make(map[string]*trade.DeliveryMethod),
	}
}

func (r *memTradeRefs) GetOrCreateOrderStatus(_ context.Context, name string) (*trade.OrderStatus, error) {
	if row, ok := r.orderStatuses[refKey(name)]; ok {
		return row, nil
	}
	row := &trade.OrderStatus{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.orderStatuses[refKey(name)] = row
	return row, nil
}

func (r *memTradeRefs) GetOrCreatePaymentStatus(_ context.Context, name string) (*trade.PaymentStatus, error) {
	if row, ok := r.paymentStatuses[refKey(name)]; ok {
		return row, nil
	}
	row := &trade.PaymentStatus{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.paymentStatuses[refKey(name)] = row
	return row, nil
}

func (r *memTradeRefs) GetOrCreateDeliveryMethod(_ context.Context, name string) (*trade.DeliveryMethod, error) {
	if row, ok := r.deliveries[refKey(name)]; ok {
		return row, nil
	}
	row := &trade.DeliveryMethod{BaseEntity: shared.NewBaseEntity(), Name: name}
	r.deliveries[refKey(name)] = row
	return row, nil
}

type memOrderRepo struct {
	orders []*trade.Order
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{}
}

func (r *memOrderRepo) Save(_ context.Context, order *trade.Order) error {
	r.orders = append(r.orders, order)
	return nil
}

func (r *memOrderRepo) ExistsByFingerprint(_ context.Context, fingerprint string) (bool, error) {
	for _, o := range r.orders {
		if o.Fingerprint == fingerprint {
			return true, nil
		}
	}
	return false, nil
}

func (r *memOrderRepo) Count(context.Context) (int64, error) {
	return int64(len(r.orders)), nil
}

// memTxRunner stands in for the database transaction runner; the in-memory
// repositories have no transactional state to join.
type memTxRunner struct{}

func (memTxRunner) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSheetCache struct {
	entries map[string]string
}

func newMemSheetCache() *memSheetCache {
	return &memSheetCache{entries: make(map[string]string)}
}

func (c *memSheetCache) Fingerprint(_ context.Context, doc, sheet string) (string, error) {
	return c.entries[doc+"|"+sheet], nil
}

func (c *memSheetCache) SetFingerprint(_ context.Context, doc, sheet, fingerprint string) error {
	c.entries[doc+"|"+sheet] = fingerprint
	return nil
}
