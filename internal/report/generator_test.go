package report

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/sales"
	"duckfarm/internal/store/memstore"
)

type fixture struct {
	st     *memstore.Store
	engine *sales.Engine
	ctx    context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memstore.New()
	return &fixture{st: st, engine: sales.NewEngine(st, nil), ctx: context.Background()}
}

func (f *fixture) duck(t *testing.T, name, price string) *model.Duck {
	t.Helper()
	d := model.NewDuck(name, nil, decimal.RequireFromString(price))
	require.NoError(t, f.st.CreateDuck(f.ctx, d))
	return d
}

func (f *fixture) customer(t *testing.T, name string, eligible bool) *model.Customer {
	t.Helper()
	c := model.NewCustomer(name, "cpf-"+name, "555-0100", "1 Pond Lane", eligible)
	require.NoError(t, f.st.CreateCustomer(f.ctx, c))
	return c
}

func (f *fixture) seller(t *testing.T, name string) *model.Seller {
	t.Helper()
	s := model.NewSeller(name, "cpf-"+name, "EMP-"+name)
	require.NoError(t, f.st.CreateSeller(f.ctx, s))
	return s
}

func (f *fixture) sell(t *testing.T, customerID, sellerID uint, duckIDs ...uint) *model.Sale {
	t.Helper()
	sale, err := f.engine.CreateSale(f.ctx, duckIDs, customerID, sellerID)
	require.NoError(t, err)
	return sale
}

func wideWindow() (time.Time, time.Time) {
	now := time.Now()
	return now.Add(-time.Hour), now.Add(time.Hour)
}

func TestSalesLedgerRejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := gen.SalesLedger(f.ctx, start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = gen.SellerRanking(f.ctx, start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestWindowValidationRunsBeforeStoreAccess(t *testing.T) {
	// A nil store would panic on any query, so rejecting the inverted
	// window without one shows validation happens first.
	gen := NewGenerator(nil, nil)

	start := time.Now()
	end := start.Add(-time.Hour)

	_, err := gen.SalesLedger(context.Background(), start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	_, err = gen.SellerRanking(context.Background(), start, end)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestSalesLedgerEmptyWindow(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	start, end := wideWindow()
	doc, err := gen.SalesLedger(f.ctx, start, end)
	require.NoError(t, err)

	assert.Equal(t, "Sales Report", doc.Title)
	assert.Empty(t, doc.Rows)
	require.Len(t, doc.Summary, 2)
	assert.Equal(t, int64(0), doc.Summary[0].Value.Int)
	assert.True(t, doc.Summary[1].Value.Money.IsZero())
}

func TestSalesLedgerRowsAndSummary(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	d1 := f.duck(t, "Donald", "100.00")
	d2 := f.duck(t, "Daisy", "50.00")
	d3 := f.duck(t, "Scrooge", "80.00")
	eligible := f.customer(t, "Alice", true)
	regular := f.customer(t, "Carol", false)
	seller := f.seller(t, "Bob")

	f.sell(t, eligible.ID, seller.ID, d1.ID, d2.ID) // 150 - 20% = 120
	f.sell(t, regular.ID, seller.ID, d3.ID)         // 80

	start, end := wideWindow()
	doc, err := gen.SalesLedger(f.ctx, start, end)
	require.NoError(t, err)

	require.Len(t, doc.Rows, 2)
	assert.Equal(t, []string{"Duck", "Status", "Customer", "Customer Type", "Final Price", "Sold At", "Seller"}, doc.Columns)

	first := doc.Rows[0]
	assert.Equal(t, "Donald, Daisy", first[0].Text)
	assert.Equal(t, "SOLD", first[1].Text)
	assert.Equal(t, "Alice", first[2].Text)
	assert.Equal(t, "Discount Eligible", first[3].Text)
	assert.Equal(t, "120.00", first[4].Money.StringFixed(2))
	assert.Equal(t, "Bob", first[6].Text)

	second := doc.Rows[1]
	assert.Equal(t, "Carol", second[2].Text)
	assert.Equal(t, "Not Eligible", second[3].Text)
	assert.Equal(t, "80.00", second[4].Money.StringFixed(2))

	require.Len(t, doc.Summary, 2)
	assert.Equal(t, "Total Sales", doc.Summary[0].Label)
	assert.Equal(t, int64(2), doc.Summary[0].Value.Int)
	assert.Equal(t, "Total Revenue", doc.Summary[1].Label)
	assert.Equal(t, "200.00", doc.Summary[1].Value.Money.StringFixed(2))
}

func TestSalesLedgerExcludesSalesOutsideWindow(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	d := f.duck(t, "Donald", "100.00")
	customer := f.customer(t, "Alice", false)
	seller := f.seller(t, "Bob")
	f.sell(t, customer.ID, seller.ID, d.ID)

	// Window entirely in the past.
	end := time.Now().Add(-24 * time.Hour)
	start := end.Add(-24 * time.Hour)

	doc, err := gen.SalesLedger(f.ctx, start, end)
	require.NoError(t, err)
	assert.Empty(t, doc.Rows)
}

func TestSellerRankingOrdersByRevenueAndSkipsIdleSellers(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	customer := f.customer(t, "Alice", false)
	s1 := f.seller(t, "First")
	s2 := f.seller(t, "Second")
	f.seller(t, "Idle")

	// First: 100 + 120 = 220. Second: 300.
	f.sell(t, customer.ID, s1.ID, f.duck(t, "d1", "100.00").ID)
	f.sell(t, customer.ID, s1.ID, f.duck(t, "d2", "120.00").ID)
	f.sell(t, customer.ID, s2.ID, f.duck(t, "d3", "300.00").ID)

	start, end := wideWindow()
	doc, err := gen.SellerRanking(f.ctx, start, end)
	require.NoError(t, err)

	require.Len(t, doc.Rows, 2)

	top := doc.Rows[0]
	assert.Equal(t, int64(1), top[0].Int)
	assert.Equal(t, "Second", top[1].Text)
	assert.Equal(t, int64(1), top[2].Int)
	assert.Equal(t, "300.00", top[3].Money.StringFixed(2))

	runner := doc.Rows[1]
	assert.Equal(t, int64(2), runner[0].Int)
	assert.Equal(t, "First", runner[1].Text)
	assert.Equal(t, int64(2), runner[2].Int)
	assert.Equal(t, "220.00", runner[3].Money.StringFixed(2))
	assert.Equal(t, "110.00", runner[4].Money.StringFixed(2))

	require.Len(t, doc.Summary, 3)
	assert.Equal(t, int64(2), doc.Summary[0].Value.Int)
	assert.Equal(t, int64(3), doc.Summary[1].Value.Int)
	assert.Equal(t, "520.00", doc.Summary[2].Value.Money.StringFixed(2))
}

func TestSellerRankingAverageTicketRounding(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	customer := f.customer(t, "Alice", false)
	seller := f.seller(t, "Bob")

	// Revenue 25.00 over 3 sales: 8.3333... rounds to 8.33.
	f.sell(t, customer.ID, seller.ID, f.duck(t, "d1", "10.00").ID)
	f.sell(t, customer.ID, seller.ID, f.duck(t, "d2", "10.00").ID)
	f.sell(t, customer.ID, seller.ID, f.duck(t, "d3", "5.00").ID)

	start, end := wideWindow()
	doc, err := gen.SellerRanking(f.ctx, start, end)
	require.NoError(t, err)

	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "8.33", doc.Rows[0][4].Money.StringFixed(2))
}

func TestSellerRankingEmptyWindow(t *testing.T) {
	f := newFixture(t)
	gen := NewGenerator(f.st, nil)

	f.seller(t, "Bob")

	start, end := wideWindow()
	doc, err := gen.SellerRanking(f.ctx, start, end)
	require.NoError(t, err)

	assert.Empty(t, doc.Rows)
	require.Len(t, doc.Summary, 3)
	assert.Equal(t, int64(0), doc.Summary[0].Value.Int)
	assert.True(t, doc.Summary[2].Value.Money.IsZero())
}
