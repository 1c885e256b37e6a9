package reconcile

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/application/classify"
	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/domain/trade"
	"github.com/shoestock/backend/internal/infrastructure/sheets"
)

// OrderIngestor assembles orders from dated order-sheet rows: resolves the
// client, the product references and the annotation, apportions the total
// over the items and skips rows whose fingerprint was already ingested.
type OrderIngestor struct {
	clients    *ClientResolver
	resolver   *ProductResolver
	products   catalog.ProductRepository
	reconciler *CatalogReconciler
	refs       *ReferenceResolver
	orders     trade.OrderRepository
	logger     *zap.Logger
	stats      *Stats
}

// NewOrderIngestor creates an OrderIngestor.
func NewOrderIngestor(clients *ClientResolver, resolver *ProductResolver, products catalog.ProductRepository,
	reconciler *CatalogReconciler, refs *ReferenceResolver, orders trade.OrderRepository,
	logger *zap.Logger, stats *Stats) *OrderIngestor {
	return &OrderIngestor{
		clients:    clients,
		resolver:   resolver,
		products:   products,
		reconciler: reconciler,
		refs:       refs,
		orders:     orders,
		logger:     logger,
		stats:      stats,
	}
}

// IngestRow reconciles one order row of the sheet dated sheetDate. Rows
// without any product token are skipped. Codes the catalog does not hold
// are noted on the order and counted; a row where no code resolves at all
// is dropped.
func (g *OrderIngestor) IngestRow(ctx context.Context, docTitle, sheetTitle string, sheetDate time.Time, row sheets.OrderRow) error {
	tokens := splitProductTokens(row.Products)
	if len(tokens) == 0 {
		return nil
	}

	client, err := g.clients.Resolve(ctx, partner.ContactInfo{
		FullName: row.ClientName,
		Phone:    row.Phone,
	})
	if err != nil {
		return err
	}

	items := make([]*catalog.Product, 0, len(tokens))
	var missing []string
	for _, token := range tokens {
		// A "#" prefix marks an explicit catalog lookup; the bare number is
		// what the catalog stores either way.
		number := strings.TrimPrefix(catalog.SanitizeNumber(token), "#")
		if number == "" {
			continue
		}
		product, err := g.lookup(ctx, number)
		if err != nil {
			return err
		}
		if product == nil {
			missing = append(missing, number)
			continue
		}
		items = append(items, product)
	}
	if len(missing) > 0 {
		g.stats.ProductsMissing += len(missing)
		g.logger.Warn("Order row references unknown products",
			zap.String("sheet", sheetTitle), zap.Int("row", row.Index),
			zap.Strings("numbers", missing))
	}
	if len(items) == 0 {
		// Nothing sellable left on the row.
		g.stats.RowsDropped++
		return nil
	}

	total, _ := parseMoney(row.Total)
	annotation := classify.Classify(row.Annotation)

	notes := ""
	paymentMethod := ""
	switch annotation.Kind {
	case classify.KindSizeWithCode:
		g.recordAnnotatedSizes(items, annotation, sheetDate)
	case classify.KindMeasurement:
		if len(items) == 1 {
			g.reconciler.RecordMeasurement(items[0].ID, annotation.MeasurementCM, sheetDate)
		}
	case classify.KindSize:
		if len(items) == 1 {
			g.reconciler.RecordSize(items[0].ID, annotation.Size, sheetDate)
		}
	case classify.KindPayment:
		paymentMethod = string(annotation.Payment)
	case classify.KindComment:
		notes = annotation.Text
	}

	if row.Comments != "" {
		if notes != "" {
			notes += "; " + row.Comments
		} else {
			notes = row.Comments
		}
		if paymentMethod == "" {
			if method, ok := classify.DetectPaymentMethod(row.Comments); ok {
				paymentMethod = string(method)
			}
		}
	}

	if len(missing) > 0 {
		note := missingNotePrefix + ": " + strings.Join(missing, ", ")
		if notes != "" {
			notes += "; " + note
		} else {
			notes = note
		}
	}

	order := trade.NewOrder(client.ID, sheetDate, total, notes)
	order.PaymentMethod = paymentMethod
	order.TrackingNumber = row.TrackingNumber
	if priority, err := strconv.Atoi(strings.TrimSpace(row.Priority)); err == nil {
		order.Priority = priority
	}
	if deferred, err := time.Parse("2.1.2006", strings.TrimSpace(row.DeferredUntil)); err == nil {
		order.DeferredUntil = &deferred
	}

	if err := g.resolveStatuses(ctx, order, row); err != nil {
		return err
	}

	for i, price := range apportion(order.Total, len(items)) {
		order.AddItem(items[i].ID, 1, price)
	}
	order.SetFingerprint(docTitle, sheetTitle, row.Index)

	exists, err := g.orders.ExistsByFingerprint(ctx, order.Fingerprint)
	if err != nil {
		return err
	}
	if exists {
		g.stats.OrdersDuplicate++
		return nil
	}
	if err := g.orders.Save(ctx, order); err != nil {
		return err
	}
	g.stats.OrdersCreated++

	for i, item := range order.Items {
		g.reconciler.RecordPrice(items[i].ID, item.Price, sheetDate)
	}
	return nil
}

// missingNotePrefix marks codes a row referenced but the catalog does not
// hold.
const missingNotePrefix = "Відсутні товари"

// lookup finds the catalog entry for a bare product number. Unknown numbers
// stay unresolved; order rows never create catalog entries.
func (g *OrderIngestor) lookup(ctx context.Context, number string) (*catalog.Product, error) {
	product, err := g.products.FindByNumber(ctx, number)
	if err == nil {
		g.resolver.MarkSeen(product.ID)
		return product, nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return nil, err
}

// recordAnnotatedSizes forwards code-bound size annotations to the catalog
// reconciler, matching each code against the row's resolved items.
func (g *OrderIngestor) recordAnnotatedSizes(items []*catalog.Product, a classify.Annotation, sheetDate time.Time) {
	for _, pair := range a.Pairs {
		base := catalog.BaseNumber(pair.ProductNumber)
		for _, item := range items {
			if !strings.EqualFold(item.BaseNumber(), base) {
				continue
			}
			g.reconciler.RecordSize(item.ID, pair.Size, sheetDate)
			break
		}
	}
}

func (g *OrderIngestor) resolveStatuses(ctx context.Context, order *trade.Order, row sheets.OrderRow) error {
	status, ok := trade.ParseOrderStatus(row.Status)
	if !ok && strings.TrimSpace(row.Status) != "" {
		g.stats.UnknownStatuses++
	}
	id, err := g.refs.OrderStatusID(ctx, status)
	if err != nil {
		return err
	}
	order.StatusID = id

	payment, ok := trade.ParsePaymentStatus(row.PaymentStatus)
	if !ok && strings.TrimSpace(row.PaymentStatus) != "" {
		g.stats.UnknownPaymentStatuses++
	}
	if order.PaymentStatusID, err = g.refs.PaymentStatusID(ctx, payment); err != nil {
		return err
	}

	delivery, ok := trade.ParseDeliveryMethod(row.Delivery)
	if !ok && strings.TrimSpace(row.Delivery) != "" {
		g.stats.UnknownDeliveries++
	}
	if order.DeliveryMethodID, err = g.refs.DeliveryMethodID(ctx, delivery); err != nil {
		return err
	}
	return nil
}

// splitProductTokens splits the products cell on commas and semicolons.
func splitProductTokens(text string) []string {
	var tokens []string
	for _, token := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	}) {
		if token = strings.TrimSpace(token); token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// apportion splits the order total evenly over n items. Rounding remainders
// land on the last item so the item prices always sum to the total.
func apportion(total decimal.Decimal, n int) []decimal.Decimal {
	prices := make([]decimal.Decimal, n)
	if n == 0 {
		return prices
	}
	share := total.Div(decimal.NewFromInt(int64(n))).Round(2)
	sum := decimal.Zero
	for i := 0; i < n-1; i++ {
		prices[i] = share
		sum = sum.Add(share)
	}
	prices[n-1] = total.Sub(sum)
	return prices
}
