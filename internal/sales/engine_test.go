package sales

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store/memstore"
)

func seedDuck(t *testing.T, st *memstore.Store, name, price string) *model.Duck {
	t.Helper()
	d := model.NewDuck(name, nil, decimal.RequireFromString(price))
	require.NoError(t, st.CreateDuck(context.Background(), d))
	return d
}

func seedCustomer(t *testing.T, st *memstore.Store, name string, eligible bool) *model.Customer {
	t.Helper()
	c := model.NewCustomer(name, "111.222.333-44", "555-0100", "1 Pond Lane", eligible)
	require.NoError(t, st.CreateCustomer(context.Background(), c))
	return c
}

func seedSeller(t *testing.T, st *memstore.Store, name string) *model.Seller {
	t.Helper()
	s := model.NewSeller(name, "999.888.777-66", "EMP-"+name)
	require.NoError(t, st.CreateSeller(context.Background(), s))
	return s
}

func TestCreateSaleAppliesDiscountForEligibleCustomer(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d1 := seedDuck(t, st, "Donald", "100.00")
	d2 := seedDuck(t, st, "Daisy", "50.00")
	customer := seedCustomer(t, st, "Alice", true)
	seller := seedSeller(t, st, "Bob")

	sale, err := engine.CreateSale(ctx, []uint{d1.ID, d2.ID}, customer.ID, seller.ID)
	require.NoError(t, err)

	assert.Equal(t, "150.00", sale.OriginalPrice.StringFixed(2))
	assert.Equal(t, "30.00", sale.DiscountAmount.StringFixed(2))
	assert.Equal(t, "120.00", sale.FinalPrice.StringFixed(2))
	assert.Len(t, sale.Ducks, 2)
	assert.False(t, sale.SaleDate.IsZero())
}

func TestCreateSaleNoDiscountForIneligibleCustomer(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d1 := seedDuck(t, st, "Donald", "100.00")
	d2 := seedDuck(t, st, "Daisy", "50.00")
	customer := seedCustomer(t, st, "Carol", false)
	seller := seedSeller(t, st, "Bob")

	sale, err := engine.CreateSale(ctx, []uint{d1.ID, d2.ID}, customer.ID, seller.ID)
	require.NoError(t, err)

	assert.Equal(t, "150.00", sale.OriginalPrice.StringFixed(2))
	assert.True(t, sale.DiscountAmount.IsZero())
	assert.Equal(t, "150.00", sale.FinalPrice.StringFixed(2))
}

func TestCreateSaleMarksEveryDuckSold(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d1 := seedDuck(t, st, "Donald", "100.00")
	d2 := seedDuck(t, st, "Daisy", "50.00")
	d3 := seedDuck(t, st, "Scrooge", "75.00")
	customer := seedCustomer(t, st, "Alice", false)
	seller := seedSeller(t, st, "Bob")

	_, err := engine.CreateSale(ctx, []uint{d1.ID, d2.ID, d3.ID}, customer.ID, seller.ID)
	require.NoError(t, err)

	for _, id := range []uint{d1.ID, d2.ID, d3.ID} {
		duck, err := st.FindDuckByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.DuckSold, duck.Status)
	}
}

func TestCreateSaleRejectsUnavailableDuck(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	available := seedDuck(t, st, "Donald", "100.00")
	sold := seedDuck(t, st, "Daisy", "50.00")
	sold.Status = model.DuckSold
	require.NoError(t, st.SaveDuck(ctx, sold))

	customer := seedCustomer(t, st, "Alice", true)
	seller := seedSeller(t, st, "Bob")

	_, err := engine.CreateSale(ctx, []uint{available.ID, sold.ID}, customer.ID, seller.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindBusinessRule, apperr.KindOf(err))
	assert.Equal(t, apperr.CodeDuckNotAvailable, apperr.CodeOf(err))

	// Nothing persisted: the available duck stays available and no
	// sale record exists.
	duck, err := st.FindDuckByID(ctx, available.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DuckAvailable, duck.Status)

	sales, err := st.FindAllSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreateSaleRejectsMissingCustomer(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)

	d := seedDuck(t, st, "Donald", "100.00")
	seller := seedSeller(t, st, "Bob")

	_, err := engine.CreateSale(context.Background(), []uint{d.ID}, 42, seller.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "customer not found")
}

func TestCreateSaleRejectsMissingSeller(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)

	d := seedDuck(t, st, "Donald", "100.00")
	customer := seedCustomer(t, st, "Alice", true)

	_, err := engine.CreateSale(context.Background(), []uint{d.ID}, customer.ID, 42)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "seller not found")
}

func TestCreateSaleRejectsMissingDucks(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)

	d := seedDuck(t, st, "Donald", "100.00")
	customer := seedCustomer(t, st, "Alice", true)
	seller := seedSeller(t, st, "Bob")

	_, err := engine.CreateSale(context.Background(), []uint{d.ID, 999}, customer.ID, seller.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "some ducks not found")
}

func TestCreateSaleRejectsDuplicateDuckIDs(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d := seedDuck(t, st, "Donald", "100.00")
	customer := seedCustomer(t, st, "Alice", false)
	seller := seedSeller(t, st, "Bob")

	// A repeated id must not charge the duck's price twice.
	_, err := engine.CreateSale(ctx, []uint{d.ID, d.ID}, customer.ID, seller.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	duck, err := st.FindDuckByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DuckAvailable, duck.Status)

	sales, err := st.FindAllSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestCreateSaleRejectsEmptyRequest(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)

	_, err := engine.CreateSale(context.Background(), nil, 1, 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestUpdateSaleIsAlwaysRejected(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d := seedDuck(t, st, "Donald", "100.00")
	customer := seedCustomer(t, st, "Alice", false)
	seller := seedSeller(t, st, "Bob")

	sale, err := engine.CreateSale(ctx, []uint{d.ID}, customer.ID, seller.ID)
	require.NoError(t, err)

	_, err = engine.UpdateSale(ctx, sale.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeSaleImmutable, apperr.CodeOf(err))

	// A missing sale still reports not found, not immutability.
	_, err = engine.UpdateSale(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteSaleKeepsDucksSold(t *testing.T) {
	st := memstore.New()
	engine := NewEngine(st, nil)
	ctx := context.Background()

	d := seedDuck(t, st, "Donald", "100.00")
	customer := seedCustomer(t, st, "Alice", false)
	seller := seedSeller(t, st, "Bob")

	sale, err := engine.CreateSale(ctx, []uint{d.ID}, customer.ID, seller.ID)
	require.NoError(t, err)

	require.NoError(t, engine.DeleteSale(ctx, sale.ID))

	_, err = engine.GetSale(ctx, sale.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	duck, err := st.FindDuckByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DuckSold, duck.Status)
}
