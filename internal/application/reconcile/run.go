package reconcile

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/partner"
	"github.com/shoestock/backend/internal/domain/shared"
	"github.com/shoestock/backend/internal/domain/trade"
	"github.com/shoestock/backend/internal/infrastructure/sheets"
)

// SheetStateCache remembers the content fingerprint of every ingested sheet
// so unchanged sheets are skipped on the next pass. Entries are written at
// batch commits; a sheet counts as ingested only once its batch committed.
type SheetStateCache interface {
	Fingerprint(ctx context.Context, doc, sheet string) (string, error)
	SetFingerprint(ctx context.Context, doc, sheet, fingerprint string) error
}

// TxRunner runs a batch of storage writes atomically. The context passed to
// fn carries the transaction; repository calls made with it join it.
type TxRunner interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config tunes one reconciliation pass.
type Config struct {
	// ProductDocuments and OrderDocuments are source references of the two
	// workbook families.
	ProductDocuments []string
	OrderDocuments   []string

	// CommitEvery is the batch size in sheets: one transaction commit and
	// one fingerprint flush per batch.
	CommitEvery int

	// FullPass marks a pass over every document, which enables pruning of
	// entries no sheet mentions anymore.
	FullPass bool

	// Since skips dated sheets older than this on incremental passes.
	Since time.Time

	MergePolicy catalog.MergePolicy
}

// DefaultCommitEvery is the batch size when none is configured.
const DefaultCommitEvery = 10

// Service runs reconciliation passes. All per-pass state (resolver caches,
// the seen set, statistics) lives in the pass, never on the Service.
type Service struct {
	source      sheets.Source
	cache       SheetStateCache
	clients     partner.ClientRepository
	products    catalog.ProductRepository
	catalogRefs catalog.ReferenceRepository
	tradeRefs   trade.ReferenceRepository
	orders      trade.OrderRepository
	tx          TxRunner
	logger      *zap.Logger
}

// NewService creates a reconciliation service.
func NewService(source sheets.Source, cache SheetStateCache,
	clients partner.ClientRepository, products catalog.ProductRepository,
	catalogRefs catalog.ReferenceRepository, tradeRefs trade.ReferenceRepository,
	orders trade.OrderRepository, tx TxRunner, logger *zap.Logger) *Service {
	return &Service{
		source:      source,
		cache:       cache,
		clients:     clients,
		products:    products,
		catalogRefs: catalogRefs,
		tradeRefs:   tradeRefs,
		orders:      orders,
		tx:          tx,
		logger:      logger,
	}
}

// pass bundles the run-owned components of one execution.
type pass struct {
	svc   *Service
	cfg   Config
	stats *Stats

	refs           *ReferenceResolver
	clientResolver *ClientResolver
	prodResolver   *ProductResolver
	reconciler     *CatalogReconciler
	productIngest  *ProductIngestor
	clientIngest   *ClientIngestor
	orderIngest    *OrderIngestor

	batch []pendingSheet
}

// pendingSheet is one fetched sheet waiting for its batch to commit.
type pendingSheet struct {
	doc, sheet, fingerprint string
	ingest                  func(ctx context.Context) error
}

// Execute runs one full reconciliation pass and returns its statistics.
// Cancellation is honored between sheets; the batches already committed
// stay ingested.
func (s *Service) Execute(ctx context.Context, cfg Config) (*Stats, error) {
	if cfg.CommitEvery <= 0 {
		cfg.CommitEvery = DefaultCommitEvery
	}

	stats := &Stats{}
	p := &pass{svc: s, cfg: cfg, stats: stats}
	p.refs = NewReferenceResolver(s.catalogRefs, s.tradeRefs)
	p.clientResolver = NewClientResolver(s.clients, s.logger, stats)
	p.prodResolver = NewProductResolver(s.products, p.refs, cfg.MergePolicy, s.logger, stats)
	p.reconciler = NewCatalogReconciler(s.products, s.logger, stats)
	p.productIngest = NewProductIngestor(p.prodResolver, p.reconciler, s.logger, stats)
	p.clientIngest = NewClientIngestor(p.clientResolver)
	p.orderIngest = NewOrderIngestor(p.clientResolver, p.prodResolver, s.products,
		p.reconciler, p.refs, s.orders, s.logger, stats)

	started := time.Now()
	s.logger.Info("Reconciliation pass started",
		zap.Int("product_documents", len(cfg.ProductDocuments)),
		zap.Int("order_documents", len(cfg.OrderDocuments)),
		zap.Bool("full_pass", cfg.FullPass))

	for _, ref := range cfg.ProductDocuments {
		if err := p.processProductDocument(ctx, ref); err != nil {
			return stats, err
		}
	}
	for _, ref := range cfg.OrderDocuments {
		if err := p.processOrderDocument(ctx, ref); err != nil {
			return stats, err
		}
	}
	if err := p.commitBatch(ctx); err != nil {
		return stats, err
	}

	if err := p.prodResolver.MergeSimilar(ctx); err != nil {
		return stats, err
	}
	if err := p.prodResolver.RenumberByDate(ctx); err != nil {
		return stats, err
	}
	if err := p.reconciler.Apply(ctx); err != nil {
		return stats, err
	}
	if cfg.FullPass {
		if err := p.prodResolver.PruneAbsent(ctx); err != nil {
			return stats, err
		}
	}

	s.logger.Info("Reconciliation pass complete", zap.Duration("elapsed", time.Since(started)))
	stats.LogSummary(s.logger)
	return stats, nil
}

// datedSheet pairs a worksheet with its parsed title date.
type datedSheet struct {
	sheet sheets.Worksheet
	date  time.Time
}

func splitWorksheets(all []sheets.Worksheet) (dated []datedSheet, named map[string]sheets.Worksheet) {
	named = make(map[string]sheets.Worksheet)
	for _, ws := range all {
		if date, _, ok := sheets.ParseTitle(ws.Title()); ok {
			dated = append(dated, datedSheet{sheet: ws, date: date})
		} else {
			named[ws.Title()] = ws
		}
	}
	sort.SliceStable(dated, func(i, j int) bool { return dated[i].date.Before(dated[j].date) })
	return dated, named
}

// processProductDocument ingests a product workbook: the dated arrival
// sheets oldest first, then the Data catalog sheet.
func (p *pass) processProductDocument(ctx context.Context, ref string) error {
	doc, err := p.svc.source.OpenDocument(ctx, ref)
	if err != nil {
		return fmt.Errorf("open product document %s: %w", ref, err)
	}
	worksheets, err := doc.Worksheets(ctx)
	if err != nil {
		return err
	}
	dated, named := splitWorksheets(worksheets)

	for _, ds := range dated {
		date := ds.date
		if err := p.processSheet(ctx, doc.Title(), ds.sheet, func(ctx context.Context, rows [][]string) error {
			return p.ingestProductRows(ctx, date, rows)
		}, p.markProductMentions); err != nil {
			return err
		}
	}

	if data, ok := named[sheets.DataSheetTitle]; ok {
		if err := p.processSheet(ctx, doc.Title(), data, func(ctx context.Context, rows [][]string) error {
			return p.ingestProductRows(ctx, time.Now(), rows)
		}, p.markProductMentions); err != nil {
			return err
		}
	}
	return nil
}

// processOrderDocument ingests an order workbook: the client directory
// first so order rows match existing clients, then the dated order sheets
// oldest first.
func (p *pass) processOrderDocument(ctx context.Context, ref string) error {
	doc, err := p.svc.source.OpenDocument(ctx, ref)
	if err != nil {
		return fmt.Errorf("open order document %s: %w", ref, err)
	}
	worksheets, err := doc.Worksheets(ctx)
	if err != nil {
		return err
	}
	dated, named := splitWorksheets(worksheets)

	if clients, ok := named[sheets.ClientsSheetTitle]; ok {
		if err := p.processSheet(ctx, doc.Title(), clients, func(ctx context.Context, rows [][]string) error {
			return p.ingestClientRows(ctx, rows)
		}, nil); err != nil {
			return err
		}
	}

	for _, ds := range dated {
		if !p.cfg.Since.IsZero() && ds.date.Before(p.cfg.Since) {
			continue
		}
		date, sheet := ds.date, ds.sheet
		if err := p.processSheet(ctx, doc.Title(), sheet, func(ctx context.Context, rows [][]string) error {
			return p.ingestOrderRows(ctx, doc.Title(), sheet.Title(), date, rows)
		}, p.markOrderMentions); err != nil {
			return err
		}
	}
	return nil
}

// processSheet fetches a sheet, skips it when its content fingerprint is
// unchanged, and queues it for the next batch commit otherwise. Unchanged
// sheets are skipped even on a full pass; re-ingesting their rows would
// bump style-run quantities a second time. The prune phase still needs
// their catalog mentions, which are collected from the fetched rows.
func (p *pass) processSheet(ctx context.Context, docTitle string, ws sheets.Worksheet,
	ingest func(ctx context.Context, rows [][]string) error,
	mentions func(ctx context.Context, rows [][]string) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows, err := ws.Rows(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// An unreadable sheet (retries exhausted, transient source fault)
		// must not fail the pass; the next run picks it up again.
		p.stats.SheetsFailed++
		p.svc.logger.Error("Sheet read failed, skipping",
			zap.String("document", docTitle), zap.String("sheet", ws.Title()), zap.Error(err))
		return nil
	}

	fingerprint := rowsFingerprint(rows)
	known, err := p.svc.cache.Fingerprint(ctx, docTitle, ws.Title())
	if err != nil {
		return err
	}
	if known == fingerprint {
		p.stats.SheetsSkipped++
		p.svc.logger.Debug("Sheet unchanged, skipping",
			zap.String("document", docTitle), zap.String("sheet", ws.Title()))
		if p.cfg.FullPass && mentions != nil {
			return mentions(ctx, rows)
		}
		return nil
	}

	p.batch = append(p.batch, pendingSheet{
		doc: docTitle, sheet: ws.Title(), fingerprint: fingerprint,
		ingest: func(ctx context.Context) error { return ingest(ctx, rows) },
	})
	if len(p.batch) >= p.cfg.CommitEvery {
		return p.commitBatch(ctx)
	}
	return nil
}

// commitBatch ingests the queued sheets inside one transaction and, once it
// commits, records their fingerprints. A storage fault rolls the whole
// batch back; its sheets stay unfingerprinted and the run moves on, so the
// next pass retries them.
func (p *pass) commitBatch(ctx context.Context) error {
	if len(p.batch) == 0 {
		return nil
	}
	batch := p.batch
	p.batch = nil

	err := p.svc.tx.InTransaction(ctx, func(txCtx context.Context) error {
		for _, ps := range batch {
			if err := ps.ingest(txCtx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.stats.SheetsFailed += len(batch)
		p.svc.logger.Error("Batch rolled back",
			zap.Int("sheets", len(batch)), zap.Error(err))
		return nil
	}

	for _, ps := range batch {
		if err := p.svc.cache.SetFingerprint(ctx, ps.doc, ps.sheet, ps.fingerprint); err != nil {
			return err
		}
	}
	p.stats.SheetsProcessed += len(batch)
	p.svc.logger.Info("Batch committed", zap.Int("sheets_processed", p.stats.SheetsProcessed))
	return nil
}

func (p *pass) ingestProductRows(ctx context.Context, date time.Time, rows [][]string) error {
	for _, row := range sheets.DecodeProductRows(rows) {
		if err := p.productIngest.IngestRow(ctx, date, row); err != nil {
			if !isRowDataError(err) {
				return err
			}
			p.rowFailed("product", row.Index, err)
		}
	}
	return nil
}

func (p *pass) ingestClientRows(ctx context.Context, rows [][]string) error {
	for _, row := range sheets.DecodeClientRows(rows) {
		if err := p.clientIngest.IngestRow(ctx, row); err != nil {
			if !isRowDataError(err) {
				return err
			}
			p.rowFailed("client", row.Index, err)
		}
	}
	return nil
}

func (p *pass) ingestOrderRows(ctx context.Context, docTitle, sheetTitle string, date time.Time, rows [][]string) error {
	for _, row := range sheets.DecodeOrderRows(rows) {
		if err := p.orderIngest.IngestRow(ctx, docTitle, sheetTitle, date, row); err != nil {
			if !isRowDataError(err) {
				return err
			}
			p.rowFailed("order", row.Index, err)
		}
	}
	return nil
}

// markProductMentions records the catalog mentions of an arrival or Data
// sheet without re-ingesting its rows.
func (p *pass) markProductMentions(ctx context.Context, rows [][]string) error {
	for _, row := range sheets.DecodeProductRows(rows) {
		if err := p.markNumberSeen(ctx, row.Number); err != nil {
			return err
		}
	}
	return nil
}

// markOrderMentions records the catalog mentions of an order sheet's
// product tokens.
func (p *pass) markOrderMentions(ctx context.Context, rows [][]string) error {
	for _, row := range sheets.DecodeOrderRows(rows) {
		for _, token := range splitProductTokens(row.Products) {
			if err := p.markNumberSeen(ctx, token); err != nil {
				return err
			}
		}
	}
	return nil
}

// markNumberSeen marks the whole variant group of a mentioned number as
// seen. The sheet only carries the number as written; after merges and
// renumbers any entry of the group may correspond to it.
func (p *pass) markNumberSeen(ctx context.Context, token string) error {
	number := strings.TrimPrefix(catalog.SanitizeNumber(token), "#")
	if number == "" {
		return nil
	}
	variants, err := p.svc.products.FindAllByBase(ctx, catalog.BaseNumber(number))
	if err != nil {
		return err
	}
	for _, v := range variants {
		p.prodResolver.MarkSeen(v.ID)
	}
	return nil
}

// rowFailed logs a bad row and moves on. One malformed row must not fail
// the whole sheet.
func (p *pass) rowFailed(kind string, index int, err error) {
	p.stats.RowsFailed++
	p.svc.logger.Warn("Row failed",
		zap.String("kind", kind), zap.Int("row", index), zap.Error(err))
}

// isRowDataError reports whether an error is a data fault of one row rather
// than a storage fault. Data faults drop the row; a storage fault aborts
// the current batch, which rolls back to the last commit.
func isRowDataError(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr)
}

// rowsFingerprint hashes a sheet's cell values.
func rowsFingerprint(rows [][]string) string {
	h := sha256.New()
	for _, row := range rows {
		for _, cell := range row {
			h.Write([]byte(cell))
			h.Write([]byte{0x1f})
		}
		h.Write([]byte{0x1e})
	}
	return hex.EncodeToString(h.Sum(nil))
}
