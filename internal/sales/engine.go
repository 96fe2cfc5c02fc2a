// Package sales implements the sale transaction engine: it validates
// a sale request against entity state, computes discount and final
// price with decimal-exact arithmetic, flips the involved ducks to
// SOLD and persists the whole thing atomically.
package sales

import (
	"context"
	"errors"
	"time"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// discountRate is the flat discount applied for eligible customers.
var discountRate = decimal.RequireFromString("0.20")

// Engine executes sale transactions against an injected store.
type Engine struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewEngine builds an engine. log may be nil.
func NewEngine(st store.Store, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, log: log, now: time.Now}
}

// CreateSale validates and persists a sale of the given ducks to the
// given customer, brokered by the given seller. Validation order:
// request shape, customer, seller, duck resolution, duck
// availability. Everything runs in one store transaction; a failure
// at any step leaves no sale row and no duck-status change. Ducks are
// read under row locks so two concurrent sales of the same duck
// cannot both observe AVAILABLE.
func (e *Engine) CreateSale(ctx context.Context, duckIDs []uint, customerID, sellerID uint) (*model.Sale, error) {
	if len(duckIDs) == 0 {
		return nil, apperr.Invalid("at least one duck id is required")
	}
	seen := make(map[uint]bool, len(duckIDs))
	for _, id := range duckIDs {
		if seen[id] {
			return nil, apperr.Invalid("duplicate duck id %d", id)
		}
		seen[id] = true
	}
	if customerID == 0 {
		return nil, apperr.Invalid("customer id is required")
	}
	if sellerID == 0 {
		return nil, apperr.Invalid("seller id is required")
	}

	var sale *model.Sale
	err := e.store.Tx(ctx, func(tx store.Store) error {
		customer, err := tx.FindCustomerByID(ctx, customerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("customer not found")
			}
			return apperr.Internal(err, "loading customer")
		}

		seller, err := tx.FindSellerByID(ctx, sellerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return apperr.NotFound("seller not found")
			}
			return apperr.Internal(err, "loading seller")
		}

		ducks, err := tx.FindDucksByIDs(ctx, duckIDs)
		if err != nil {
			return apperr.Internal(err, "loading ducks")
		}
		if len(ducks) != len(duckIDs) {
			return apperr.NotFound("some ducks not found")
		}
		for _, d := range ducks {
			if d.Status != model.DuckAvailable {
				return apperr.Business(apperr.CodeDuckNotAvailable, "duck %s is not available", d.Name)
			}
		}

		originalPrice := decimal.Zero
		for _, d := range ducks {
			originalPrice = originalPrice.Add(d.Price)
		}
		discountAmount := decimal.Zero
		if customer.DiscountEligible {
			// Prices carry 2 decimal places; x0.20 can produce a third,
			// so the discount is rounded half-up before subtraction.
			discountAmount = originalPrice.Mul(discountRate).Round(2)
		}
		finalPrice := originalPrice.Sub(discountAmount)

		sale = &model.Sale{
			Ducks:          ducks,
			CustomerID:     customer.ID,
			SellerID:       seller.ID,
			OriginalPrice:  originalPrice,
			DiscountAmount: discountAmount,
			FinalPrice:     finalPrice,
			SaleDate:       e.now(),
		}
		if err := tx.CreateSale(ctx, sale); err != nil {
			return apperr.Internal(err, "persisting sale")
		}

		// Every requested duck is sold, not only the first.
		for i := range ducks {
			ducks[i].Status = model.DuckSold
			if err := tx.SaveDuck(ctx, &ducks[i]); err != nil {
				return apperr.Internal(err, "updating duck status")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("sale created",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("customer_id", customerID),
		zap.Uint("seller_id", sellerID),
		zap.Int("ducks", len(duckIDs)),
		zap.String("final_price", sale.FinalPrice.StringFixed(2)))
	return sale, nil
}

// GetSale returns the sale with the given id.
func (e *Engine) GetSale(ctx context.Context, id uint) (*model.Sale, error) {
	sale, err := e.store.FindSaleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("sale not found")
		}
		return nil, apperr.Internal(err, "loading sale")
	}
	return sale, nil
}

// ListSales returns every sale in store order.
func (e *Engine) ListSales(ctx context.Context) ([]model.Sale, error) {
	sales, err := e.store.FindAllSales(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "listing sales")
	}
	return sales, nil
}

// ListSalesByCustomer returns the sales made to one customer.
func (e *Engine) ListSalesByCustomer(ctx context.Context, customerID uint) ([]model.Sale, error) {
	sales, err := e.store.FindSalesByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal(err, "listing sales by customer")
	}
	return sales, nil
}

// ListSalesBySeller returns the sales brokered by one seller.
func (e *Engine) ListSalesBySeller(ctx context.Context, sellerID uint) ([]model.Sale, error) {
	sales, err := e.store.FindSalesBySellerID(ctx, sellerID)
	if err != nil {
		return nil, apperr.Internal(err, "listing sales by seller")
	}
	return sales, nil
}

// UpdateSale always fails: sale records are immutable once created.
func (e *Engine) UpdateSale(ctx context.Context, id uint) (*model.Sale, error) {
	if _, err := e.GetSale(ctx, id); err != nil {
		return nil, err
	}
	return nil, apperr.Business(apperr.CodeSaleImmutable, "sale records are immutable")
}

// DeleteSale removes a sale unconditionally. The ducks it covered
// keep their SOLD status.
func (e *Engine) DeleteSale(ctx context.Context, id uint) error {
	if err := e.store.DeleteSale(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("sale not found")
		}
		return apperr.Internal(err, "deleting sale")
	}
	return nil
}
