package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/sales"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// SaleHandler serves sale transaction endpoints on top of the engine.
type SaleHandler struct {
	engine *sales.Engine
}

// NewSaleHandler creates a new sale handler.
func NewSaleHandler(engine *sales.Engine) *SaleHandler {
	return &SaleHandler{engine: engine}
}

// SaleRequest defines the structure for sale creation requests
type SaleRequest struct {
	DuckIDs    []uint `json:"duck_ids"`
	CustomerID uint   `json:"customer_id"`
	SellerID   uint   `json:"seller_id"`
}

// SaleResponse is the wire shape of a sale.
type SaleResponse struct {
	ID             uint      `json:"id"`
	DuckIDs        []uint    `json:"duck_ids"`
	CustomerID     uint      `json:"customer_id"`
	SellerID       uint      `json:"seller_id"`
	OriginalPrice  string    `json:"original_price"`
	DiscountAmount string    `json:"discount_amount"`
	FinalPrice     string    `json:"final_price"`
	SaleDate       time.Time `json:"sale_date"`
}

func toSaleResponse(s *model.Sale) SaleResponse {
	return SaleResponse{
		ID:             s.ID,
		DuckIDs:        s.DuckIDs(),
		CustomerID:     s.CustomerID,
		SellerID:       s.SellerID,
		OriginalPrice:  s.OriginalPrice.StringFixed(2),
		DiscountAmount: s.DiscountAmount.StringFixed(2),
		FinalPrice:     s.FinalPrice.StringFixed(2),
		SaleDate:       s.SaleDate,
	}
}

func toSaleResponses(in []model.Sale) []SaleResponse {
	out := make([]SaleResponse, 0, len(in))
	for i := range in {
		out = append(out, toSaleResponse(&in[i]))
	}
	return out
}

// CreateSale handles selling ducks to a customer
func (h *SaleHandler) CreateSale(c echo.Context) error {
	log := logger.FromEcho(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}

	sale, err := h.engine.CreateSale(c.Request().Context(), req.DuckIDs, req.CustomerID, req.SellerID)
	if err != nil {
		return writeError(c, err)
	}

	prometheus.SaleOperationsCounter.WithLabelValues("create").Inc()
	prometheus.SalesCreatedCounter.Inc()
	log.Info("Sale completed",
		zap.Uint("sale_id", sale.ID),
		zap.String("final_price", sale.FinalPrice.StringFixed(2)))
	return c.JSON(http.StatusCreated, toSaleResponse(sale))
}

// GetSale handles retrieving a single sale by ID
func (h *SaleHandler) GetSale(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	sale, err := h.engine.GetSale(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSaleResponse(sale))
}

// ListSales handles retrieving all sales
func (h *SaleHandler) ListSales(c echo.Context) error {
	salesList, err := h.engine.ListSales(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSaleResponses(salesList))
}

// ListSalesByCustomer handles retrieving the sales made to one customer
func (h *SaleHandler) ListSalesByCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	salesList, err := h.engine.ListSalesByCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSaleResponses(salesList))
}

// ListSalesBySeller handles retrieving the sales brokered by one seller
func (h *SaleHandler) ListSalesBySeller(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	salesList, err := h.engine.ListSalesBySeller(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toSaleResponses(salesList))
}

// UpdateSale always rejects: completed sales are immutable
func (h *SaleHandler) UpdateSale(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if _, err := h.engine.UpdateSale(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	// Unreachable, UpdateSale never succeeds.
	return c.NoContent(http.StatusOK)
}

// DeleteSale handles removing a sale record
func (h *SaleHandler) DeleteSale(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.engine.DeleteSale(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}

	prometheus.SaleOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Sale deleted", zap.Uint("sale_id", id))
	return c.NoContent(http.StatusNoContent)
}
