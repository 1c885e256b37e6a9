package reconcile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/infrastructure/sheets"
)

func newStaleProduct() (*catalog.Product, error) {
	return catalog.NewProduct("Ф99", day(1))
}

type runFixture struct {
	source   *sheets.MemorySource
	cache    *memSheetCache
	clients  *memClientRepo
	products *memProductRepo
	orders   *memOrderRepo
	service  *Service
}

func newRunFixture() *runFixture {
	f := &runFixture{
		source:   sheets.NewMemorySource(),
		cache:    newMemSheetCache(),
		clients:  newMemClientRepo(),
		products: newMemProductRepo(),
		orders:   newMemOrderRepo(),
	}
	f.service = NewService(f.source, f.cache, f.clients, f.products,
		newMemCatalogRefs(), newMemTradeRefs(), f.orders, memTxRunner{}, zap.NewNop())
	return f
}

func productSheetRows(rows ...[]string) [][]string {
	header := []string{"№", "Тип", "Підтип", "Бренд", "Стать", "Колір", "Країна",
		"Модель", "Маркування", "Рік", "Опис", "Розмір", "Замір", "Ціна", "Стан"}
	return append([][]string{header}, rows...)
}

func orderSheetRows(rows ...[]string) [][]string {
	header := []string{"ПІБ", "Телефон", "Товар", "Сума", "Статус", "Оплата", "Доставка", "Примітка"}
	return append([][]string{header}, rows...)
}

func (f *runFixture) seedDocuments() {
	stock := &sheets.MemoryDocument{DocTitle: "Stock"}
	stock.AddSheet("01.03.2024", productSheetRows(
		[]string{"Ф1", "Взуття", "Кросівки", "Nike", "Жіноча", "Білий", "В'єтнам", "Air Max", "AM-90", "2023", "", "42", "", "2500", "Нове"},
		[]string{"Ф2", "Взуття", "Черевики", "Ecco", "Чоловіча", "Чорний", "Китай", "Track", "TR-1", "2022", "", "44", "", "3200", "Нове"},
	))
	stock.AddSheet("05.03.2024", productSheetRows(
		// Another unit of the Ф1 style run.
		[]string{"Ф1", "Взуття", "Кросівки", "Nike", "Жіноча", "Білий", "В'єтнам", "Air Max", "AM-90", "2023", "", "", "", "2600", "Нове"},
	))
	f.source.AddDocument("stock", stock)

	orders := &sheets.MemoryDocument{DocTitle: "Orders"}
	orders.AddSheet(sheets.ClientsSheetTitle, [][]string{
		{"ПІБ", "Телефон", "Email"},
		{"Олена Коваленко", "0671234567", "olena@example.com"},
	})
	orders.AddSheet("10.03.2024", orderSheetRows(
		[]string{"Олена Коваленко", "0671234567", "Ф1", "2600", "відправлено", "оплачено", "НП", ""},
	))
	f.source.AddDocument("orders", orders)
}

func runConfig() Config {
	return Config{
		ProductDocuments: []string{"stock"},
		OrderDocuments:   []string{"orders"},
		CommitEvery:      2,
	}
}

func TestExecutePass(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	stats, err := f.service.Execute(ctx, runConfig())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.SheetsProcessed)
	assert.Equal(t, 0, stats.SheetsSkipped)

	// Two catalog entries, the second Ф1 arrival folded into the first.
	count, _ := f.products.Count(ctx)
	assert.EqualValues(t, 2, count)
	f1 := f.products.mustByNumber("Ф1")
	require.NotNil(t, f1)
	assert.Equal(t, 2, f1.Quantity)
	assert.Equal(t, "2600", f1.Price.String(), "later sheet's price wins")

	// The order matched the directory client by phone.
	require.Len(t, f.orders.orders, 1)
	clientCount, _ := f.clients.Count(ctx)
	assert.EqualValues(t, 1, clientCount)

	assert.Equal(t, 1, stats.OrdersCreated)
	assert.Equal(t, 1, stats.UnitsAdded)
}

func TestExecuteSkipsUnchangedSheets(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	_, err := f.service.Execute(ctx, runConfig())
	require.NoError(t, err)

	stats, err := f.service.Execute(ctx, runConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.SheetsProcessed)
	assert.Equal(t, 4, stats.SheetsSkipped)
	assert.Len(t, f.orders.orders, 1, "no duplicate orders on re-run")
}

func TestExecuteFullPassPrunesWithoutReingesting(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	_, err := f.service.Execute(ctx, runConfig())
	require.NoError(t, err)

	// An entry no sheet mentions anymore.
	stale, err := newStaleProduct()
	require.NoError(t, err)
	require.NoError(t, f.products.Save(ctx, stale))

	cfg := runConfig()
	cfg.FullPass = true
	stats, err := f.service.Execute(ctx, cfg)
	require.NoError(t, err)

	// Unchanged sheets are not re-ingested; their catalog mentions still
	// feed the prune phase.
	assert.Equal(t, 0, stats.SheetsProcessed)
	assert.Equal(t, 4, stats.SheetsSkipped)
	assert.Equal(t, 1, stats.ProductsPruned)
	assert.Nil(t, f.products.mustByNumber("Ф99"))
	count, _ := f.products.Count(ctx)
	assert.EqualValues(t, 2, count)
	f1 := f.products.mustByNumber("Ф1")
	require.NotNil(t, f1)
	assert.Equal(t, 2, f1.Quantity, "quantities untouched by the prune pass")
}

func TestExecuteFullPassTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	cfg := runConfig()
	cfg.FullPass = true
	_, err := f.service.Execute(ctx, cfg)
	require.NoError(t, err)

	stats, err := f.service.Execute(ctx, cfg)
	require.NoError(t, err)

	assert.Equal(t, 0, stats.ProductsCreated)
	assert.Equal(t, 0, stats.UnitsAdded)
	assert.Equal(t, 0, stats.ClientsCreated)
	assert.Equal(t, 0, stats.OrdersCreated)

	count, _ := f.products.Count(ctx)
	assert.EqualValues(t, 2, count)
	clientCount, _ := f.clients.Count(ctx)
	assert.EqualValues(t, 1, clientCount)
	assert.Len(t, f.orders.orders, 1)
	f1 := f.products.mustByNumber("Ф1")
	require.NotNil(t, f1)
	assert.Equal(t, 2, f1.Quantity)
}

func TestExecuteIncrementalSinceSkipsOldOrderSheets(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	cfg := runConfig()
	cfg.Since = day(12)
	stats, err := f.service.Execute(ctx, cfg)
	require.NoError(t, err)

	assert.Empty(t, f.orders.orders, "order sheet dated 10.03 is before the cutoff")
	assert.Equal(t, 3, stats.SheetsProcessed)
}

// failingSaveRepo fails the first n product saves with a storage error.
type failingSaveRepo struct {
	*memProductRepo
	failures int
}

func (r *failingSaveRepo) Save(ctx context.Context, p *catalog.Product) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	return r.memProductRepo.Save(ctx, p)
}

func TestExecuteRetriesRolledBackBatch(t *testing.T) {
	ctx := context.Background()
	f := newRunFixture()
	f.seedDocuments()

	products := &failingSaveRepo{memProductRepo: f.products, failures: 1}
	service := NewService(f.source, f.cache, f.clients, products,
		newMemCatalogRefs(), newMemTradeRefs(), f.orders, memTxRunner{}, zap.NewNop())

	cfg := Config{ProductDocuments: []string{"stock"}, CommitEvery: 2}
	stats, err := service.Execute(ctx, cfg)
	require.NoError(t, err, "a storage fault fails the batch, not the run")
	assert.Equal(t, 2, stats.SheetsFailed)
	assert.Equal(t, 0, stats.SheetsProcessed)

	// The failed batch left no fingerprints behind, so the next pass
	// picks its sheets up again.
	stats, err = service.Execute(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.SheetsProcessed)
	assert.Equal(t, 0, stats.SheetsFailed)
	count, _ := f.products.Count(ctx)
	assert.EqualValues(t, 2, count)
}

func TestExecuteHonorsCancellation(t *testing.T) {
	f := newRunFixture()
	f.seedDocuments()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service.Execute(ctx, runConfig())
	assert.ErrorIs(t, err, context.Canceled)
}
