package reconcile

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/infrastructure/sheets"
)

var moneyJunk = regexp.MustCompile(`(?i)[\s₴]|грн|uah`)

// parseMoney reads an operator-entered amount: spaces and currency markers
// stripped, decimal comma accepted.
func parseMoney(text string) (decimal.Decimal, bool) {
	cleaned := moneyJunk.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseYear(text string) int {
	year, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || year < 1900 || year > 2100 {
		return 0
	}
	return year
}

// ProductIngestor feeds arrival-sheet and Data-sheet rows through the
// product resolver and the catalog reconciler.
type ProductIngestor struct {
	products   *ProductResolver
	reconciler *CatalogReconciler
	logger     *zap.Logger
	stats      *Stats
}

// NewProductIngestor creates a ProductIngestor.
func NewProductIngestor(products *ProductResolver, reconciler *CatalogReconciler, logger *zap.Logger, stats *Stats) *ProductIngestor {
	return &ProductIngestor{products: products, reconciler: reconciler, logger: logger, stats: stats}
}

// IngestRow reconciles one product row observed on a sheet dated sheetDate.
// Rows without a usable catalog number are skipped.
func (g *ProductIngestor) IngestRow(ctx context.Context, sheetDate time.Time, row sheets.ProductRow) error {
	if strings.TrimSpace(row.Number) == "" {
		return nil
	}

	price, _ := parseMoney(row.Price)
	obs := Observation{
		Number:      row.Number,
		Type:        row.Type,
		Subtype:     row.Subtype,
		Brand:       row.Brand,
		Gender:      row.Gender,
		Color:       row.Color,
		Country:     row.Country,
		Condition:   row.Condition,
		Model:       row.Model,
		Marking:     row.Marking,
		Year:        parseYear(row.Year),
		Description: row.Description,
		Size:        row.Size,
		Measurement: row.Measurement,
		Price:       price,
		SheetDate:   sheetDate,
	}

	product, err := g.products.Upsert(ctx, obs)
	if err != nil {
		return err
	}
	g.reconciler.RecordPrice(product.ID, price, sheetDate)
	return nil
}

// ClientIngestor feeds client directory rows through the client resolver.
type ClientIngestor struct {
	clients *ClientResolver
}

// NewClientIngestor creates a ClientIngestor.
func NewClientIngestor(clients *ClientResolver) *ClientIngestor {
	return &ClientIngestor{clients: clients}
}

// IngestRow resolves one client directory row. Rows with neither a name nor
// any contact key are skipped.
func (g *ClientIngestor) IngestRow(ctx context.Context, row sheets.ClientRow) error {
	info := partner.ContactInfo{
		FullName:  row.FullName,
		Phone:     row.Phone,
		Email:     row.Email,
		Facebook:  row.Facebook,
		Viber:     row.Viber,
		Telegram:  row.Telegram,
		Instagram: row.Instagram,
	}
	if row.FullName == "" && info.NormalizedPhone() == "" && !hasAnyHandle(info) {
		return nil
	}
	_, err := g.clients.Resolve(ctx, info)
	return err
}

func hasAnyHandle(info partner.ContactInfo) bool {
	for _, kind := range partner.HandleKinds {
		if info.NormalizedHandle(kind) != "" {
			return true
		}
	}
	return false
}
