package reconcile

import "go.uber.org/zap"

// Stats accumulates counters over one reconciliation pass. One instance is
// owned by the run and threaded through the services; nothing here is
// shared across runs.
type Stats struct {
	SheetsProcessed int
	SheetsSkipped   int
	SheetsFailed    int

	ProductsCreated     int
	ProductsUpdated     int
	UnitsAdded          int
	ProductsMerged      int
	ProductsRenumbered  int
	ProductsPruned      int
	ProductsMissing     int
	PricesUpdated       int
	SizesApplied        int
	MeasurementsApplied int

	ClientsCreated    int
	ClientsMatched    int
	ClientsBackfilled int

	OrdersCreated   int
	OrdersDuplicate int

	UnknownStatuses        int
	UnknownPaymentStatuses int
	UnknownDeliveries      int
	UnknownGenders         int
	UnknownCountries       int

	RowsFailed  int
	RowsDropped int
}

// LogSummary writes the pass totals at info level.
func (s *Stats) LogSummary(logger *zap.Logger) {
	logger.Info("Reconciliation pass finished",
		zap.Int("sheets_processed", s.SheetsProcessed),
		zap.Int("sheets_skipped", s.SheetsSkipped),
		zap.Int("sheets_failed", s.SheetsFailed),
		zap.Int("products_created", s.ProductsCreated),
		zap.Int("products_updated", s.ProductsUpdated),
		zap.Int("units_added", s.UnitsAdded),
		zap.Int("products_merged", s.ProductsMerged),
		zap.Int("products_renumbered", s.ProductsRenumbered),
		zap.Int("products_pruned", s.ProductsPruned),
		zap.Int("products_missing", s.ProductsMissing),
		zap.Int("prices_updated", s.PricesUpdated),
		zap.Int("sizes_applied", s.SizesApplied),
		zap.Int("measurements_applied", s.MeasurementsApplied),
		zap.Int("clients_created", s.ClientsCreated),
		zap.Int("clients_matched", s.ClientsMatched),
		zap.Int("orders_created", s.OrdersCreated),
		zap.Int("orders_duplicate", s.OrdersDuplicate),
		zap.Int("unknown_statuses", s.UnknownStatuses),
		zap.Int("unknown_payment_statuses", s.UnknownPaymentStatuses),
		zap.Int("unknown_deliveries", s.UnknownDeliveries),
		zap.Int("rows_failed", s.RowsFailed),
		zap.Int("rows_dropped", s.RowsDropped),
	)
}
