package report

import (
	"context"
	"sort"
	"strings"
	"time"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Generator builds report documents from an injected store.
type Generator struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

// NewGenerator builds a generator. log may be nil.
func NewGenerator(st store.Store, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{store: st, log: log, now: time.Now}
}

func validateWindow(start, end time.Time) error {
	if start.After(end) {
		return apperr.Invalid("start date must not be after end date")
	}
	return nil
}

func customerKind(eligible bool) string {
	if eligible {
		return "Discount Eligible"
	}
	return "Not Eligible"
}

func duckNames(ducks []model.Duck) string {
	names := make([]string, 0, len(ducks))
	for _, d := range ducks {
		names = append(names, d.Name)
	}
	return strings.Join(names, ", ")
}

func duckStatuses(ducks []model.Duck) string {
	seen := map[model.DuckStatus]bool{}
	parts := make([]string, 0, 1)
	for _, d := range ducks {
		if !seen[d.Status] {
			seen[d.Status] = true
			parts = append(parts, string(d.Status))
		}
	}
	return strings.Join(parts, ", ")
}

// SalesLedger produces the itemized sales report for the inclusive
// window [start, end]. Rows come back in store order; the summary
// surfaces sale count and revenue.
func (g *Generator) SalesLedger(ctx context.Context, start, end time.Time) (*Document, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	sales, err := g.store.FindSalesInRange(ctx, start, end)
	if err != nil {
		return nil, apperr.Internal(err, "loading sales in range")
	}

	doc := &Document{
		Title:       "Sales Report",
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: g.now(),
		Columns:     []string{"Duck", "Status", "Customer", "Customer Type", "Final Price", "Sold At", "Seller"},
	}

	totalRevenue := decimal.Zero
	totalDiscount := decimal.Zero
	for _, sale := range sales {
		doc.Rows = append(doc.Rows, []Cell{
			Text(duckNames(sale.Ducks)),
			Text(duckStatuses(sale.Ducks)),
			Text(sale.Customer.Name),
			Text(customerKind(sale.Customer.DiscountEligible)),
			Money(sale.FinalPrice),
			Clock(sale.SaleDate),
			Text(sale.Seller.Name),
		})
		totalRevenue = totalRevenue.Add(sale.FinalPrice)
		totalDiscount = totalDiscount.Add(sale.DiscountAmount)
	}
	// totalDiscount is accumulated but the ledger summary layout only
	// surfaces count and revenue.
	_ = totalDiscount

	doc.Summary = []SummaryItem{
		{Label: "Total Sales", Value: Int(int64(len(sales)))},
		{Label: "Total Revenue", Value: Money(totalRevenue)},
	}

	g.log.Info("sales ledger generated",
		zap.Time("start", start), zap.Time("end", end), zap.Int("rows", len(sales)))
	return doc, nil
}

// sellerMetrics is one seller's aggregate within a window.
type sellerMetrics struct {
	seller        model.Seller
	saleCount     int64
	totalRevenue  decimal.Decimal
	averageTicket decimal.Decimal
}

// SellerRanking produces the seller ranking report for the inclusive
// window [start, end]: sellers with at least one sale, ordered by
// revenue descending (ties keep encounter order), with average ticket
// rounded half-up to 2 decimal places.
func (g *Generator) SellerRanking(ctx context.Context, start, end time.Time) (*Document, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}

	sellers, err := g.store.FindAllSellers(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "loading sellers")
	}

	var ranked []sellerMetrics
	for _, sl := range sellers {
		sellerSales, err := g.store.FindSalesBySellerInRange(ctx, sl.ID, start, end)
		if err != nil {
			return nil, apperr.Internal(err, "loading seller sales")
		}
		if len(sellerSales) == 0 {
			continue
		}
		revenue := decimal.Zero
		for _, sale := range sellerSales {
			revenue = revenue.Add(sale.FinalPrice)
		}
		count := int64(len(sellerSales))
		ranked = append(ranked, sellerMetrics{
			seller:        sl,
			saleCount:     count,
			totalRevenue:  revenue,
			averageTicket: revenue.DivRound(decimal.NewFromInt(count), 2),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].totalRevenue.GreaterThan(ranked[j].totalRevenue)
	})

	doc := &Document{
		Title:       "Seller Ranking",
		PeriodStart: start,
		PeriodEnd:   end,
		GeneratedAt: g.now(),
		Columns:     []string{"Rank", "Seller", "Sales", "Total Revenue", "Average Ticket", "CPF", "Employee ID"},
	}

	totalSales := int64(0)
	totalRevenue := decimal.Zero
	for i, m := range ranked {
		doc.Rows = append(doc.Rows, []Cell{
			Int(int64(i + 1)),
			Text(m.seller.Name),
			Int(m.saleCount),
			Money(m.totalRevenue),
			Money(m.averageTicket),
			Text(m.seller.CPF),
			Text(m.seller.EmployeeID),
		})
		totalSales += m.saleCount
		totalRevenue = totalRevenue.Add(m.totalRevenue)
	}

	doc.Summary = []SummaryItem{
		{Label: "Total Sellers", Value: Int(int64(len(ranked)))},
		{Label: "Total Sales", Value: Int(totalSales)},
		{Label: "Total Revenue", Value: Money(totalRevenue)},
	}

	g.log.Info("seller ranking generated",
		zap.Time("start", start), zap.Time("end", end), zap.Int("sellers", len(ranked)))
	return doc, nil
}
