package reconcile

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/shared"
)

// CatalogReconciler accumulates price, size and measurement observations
// over one pass and applies them once at the end of the run, after the
// merge and renumber passes have settled the catalog. For each entry the
// latest-dated observation wins; within a day the later row wins. The
// observation maps are owned by the run.
type CatalogReconciler struct {
	products catalog.ProductRepository
	logger   *zap.Logger
	stats    *Stats

	prices       map[uuid.UUID]priceObservation
	sizes        map[uuid.UUID]valueObservation
	measurements map[uuid.UUID]valueObservation
}

type priceObservation struct {
	price decimal.Decimal
	date  time.Time
}

type valueObservation struct {
	value string
	date  time.Time
}

// NewCatalogReconciler creates a reconciler with empty observation maps.
func NewCatalogReconciler(products catalog.ProductRepository, logger *zap.Logger, stats *Stats) *CatalogReconciler {
	return &CatalogReconciler{
		products:     products,
		logger:       logger,
		stats:        stats,
		prices:       make(map[uuid.UUID]priceObservation),
		sizes:        make(map[uuid.UUID]valueObservation),
		measurements: make(map[uuid.UUID]valueObservation),
	}
}

// RecordPrice notes a price observed on a sheet dated sheetDate. Zero and
// negative prices are ignored.
func (r *CatalogReconciler) RecordPrice(productID uuid.UUID, price decimal.Decimal, sheetDate time.Time) {
	if !price.IsPositive() {
		return
	}
	if stored, ok := r.prices[productID]; ok && sheetDate.Before(stored.date) {
		return
	}
	r.prices[productID] = priceObservation{price: price, date: sheetDate}
}

// RecordSize notes a size observed on a sheet dated sheetDate.
func (r *CatalogReconciler) RecordSize(productID uuid.UUID, size string, sheetDate time.Time) {
	recordValue(r.sizes, productID, size, sheetDate)
}

// RecordMeasurement notes an insole measurement observed on a sheet dated
// sheetDate.
func (r *CatalogReconciler) RecordMeasurement(productID uuid.UUID, cm string, sheetDate time.Time) {
	recordValue(r.measurements, productID, cm, sheetDate)
}

func recordValue(m map[uuid.UUID]valueObservation, productID uuid.UUID, value string, sheetDate time.Time) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if stored, ok := m[productID]; ok && sheetDate.Before(stored.date) {
		return
	}
	m[productID] = valueObservation{value: value, date: sheetDate}
}

// Apply writes the accumulated observations to the catalog. Prices
// overwrite, preserving the pre-run price in OldPrice only if it is still
// unset; sizes and measurements only fill empty fields, so operator-entered
// values survive. Entries that vanished in the merge or prune passes are
// skipped.
func (r *CatalogReconciler) Apply(ctx context.Context) error {
	for id, obs := range r.prices {
		product, err := r.fetch(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || product.Price.Equal(obs.price) {
			continue
		}
		product.SetPrice(obs.price)
		if err := r.products.Save(ctx, product); err != nil {
			return err
		}
		r.stats.PricesUpdated++
		r.logger.Debug("Updated price",
			zap.String("number", product.Number),
			zap.String("price", obs.price.String()),
			zap.Time("sheet_date", obs.date))
	}

	for id, obs := range r.sizes {
		product, err := r.fetch(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || !product.SetSizeIfEmpty(obs.value) {
			continue
		}
		if err := r.products.Save(ctx, product); err != nil {
			return err
		}
		r.stats.SizesApplied++
	}

	for id, obs := range r.measurements {
		product, err := r.fetch(ctx, id)
		if err != nil {
			return err
		}
		if product == nil || !product.SetMeasurementIfEmpty(obs.value) {
			continue
		}
		if err := r.products.Save(ctx, product); err != nil {
			return err
		}
		r.stats.MeasurementsApplied++
	}
	return nil
}

func (r *CatalogReconciler) fetch(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := r.products.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		r.logger.Debug("Observed entry no longer in the catalog", zap.String("id", id.String()))
		return nil, nil
	}
	return product, err
}
