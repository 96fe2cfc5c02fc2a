package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// DuckHandler serves duck inventory endpoints.
type DuckHandler struct {
	store store.Store
}

// NewDuckHandler creates a new duck handler.
func NewDuckHandler(st store.Store) *DuckHandler {
	return &DuckHandler{store: st}
}

// DuckRequest defines the structure for duck creation/update requests
type DuckRequest struct {
	Name     string `json:"name"`
	MotherID *uint  `json:"mother_id,omitempty"`
	Price    string `json:"price"`
}

func (r *DuckRequest) parsePrice() (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return decimal.Decimal{}, apperr.Invalid("invalid price: %s", r.Price)
	}
	if price.IsNegative() || price.IsZero() {
		return decimal.Decimal{}, apperr.Invalid("price must be positive")
	}
	return price, nil
}

// CreateDuck handles duck registration
func (h *DuckHandler) CreateDuck(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req DuckRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if req.Name == "" {
		return writeError(c, apperr.Invalid("name is required"))
	}

	price, err := req.parsePrice()
	if err != nil {
		return writeError(c, err)
	}

	// A referenced mother must exist in the inventory
	if req.MotherID != nil {
		if _, err := h.store.FindDuckByID(ctx, *req.MotherID); err != nil {
			if err == store.ErrNotFound {
				return writeError(c, apperr.NotFound("mother duck not found"))
			}
			return writeError(c, apperr.Internal(err, "failed to resolve mother duck"))
		}
	}

	duck := model.NewDuck(req.Name, req.MotherID, price)
	if err := h.store.CreateDuck(ctx, duck); err != nil {
		return writeError(c, apperr.Internal(err, "failed to create duck"))
	}

	prometheus.DuckOperationsCounter.WithLabelValues("create").Inc()
	log.Info("Duck created", zap.Uint("duck_id", duck.ID), zap.String("name", duck.Name))
	return c.JSON(http.StatusCreated, duck)
}

// GetDuck handles retrieving a single duck by ID
func (h *DuckHandler) GetDuck(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	duck, err := h.store.FindDuckByID(c.Request().Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("duck not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve duck"))
	}

	return c.JSON(http.StatusOK, duck)
}

// ListDucks handles retrieving all ducks
func (h *DuckHandler) ListDucks(c echo.Context) error {
	ducks, err := h.store.FindAllDucks(c.Request().Context())
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to retrieve ducks"))
	}
	return c.JSON(http.StatusOK, ducks)
}

// ListDucksByStatus handles retrieving ducks filtered by status
func (h *DuckHandler) ListDucksByStatus(c echo.Context) error {
	status := model.DuckStatus(strings.ToUpper(c.Param("status")))
	if !status.Valid() {
		return writeError(c, apperr.Invalid("invalid status: %s", c.Param("status")))
	}

	ducks, err := h.store.FindDucksByStatus(c.Request().Context(), status)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to retrieve ducks"))
	}
	return c.JSON(http.StatusOK, ducks)
}

// ListAvailableDucks handles retrieving the sellable inventory
func (h *DuckHandler) ListAvailableDucks(c echo.Context) error {
	ducks, err := h.store.FindDucksByStatus(c.Request().Context(), model.DuckAvailable)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to retrieve ducks"))
	}
	return c.JSON(http.StatusOK, ducks)
}

// UpdateDuck handles updating a duck's name, mother and price
func (h *DuckHandler) UpdateDuck(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req DuckRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if req.Name == "" {
		return writeError(c, apperr.Invalid("name is required"))
	}

	price, err := req.parsePrice()
	if err != nil {
		return writeError(c, err)
	}

	duck, err := h.store.FindDuckByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("duck not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve duck"))
	}

	if req.MotherID != nil {
		if *req.MotherID == duck.ID {
			return writeError(c, apperr.Invalid("a duck cannot be its own mother"))
		}
		if _, err := h.store.FindDuckByID(ctx, *req.MotherID); err != nil {
			if err == store.ErrNotFound {
				return writeError(c, apperr.NotFound("mother duck not found"))
			}
			return writeError(c, apperr.Internal(err, "failed to resolve mother duck"))
		}
	}

	duck.Name = req.Name
	duck.MotherID = req.MotherID
	duck.Price = price
	if err := h.store.SaveDuck(ctx, duck); err != nil {
		return writeError(c, apperr.Internal(err, "failed to update duck"))
	}

	prometheus.DuckOperationsCounter.WithLabelValues("update").Inc()
	log.Info("Duck updated", zap.Uint("duck_id", duck.ID))
	return c.JSON(http.StatusOK, duck)
}

// DeleteDuck handles removing a duck from the inventory. Sold ducks are
// part of the sales ledger and cannot be deleted.
func (h *DuckHandler) DeleteDuck(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	duck, err := h.store.FindDuckByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("duck not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve duck"))
	}

	if duck.Status == model.DuckSold {
		return writeError(c, apperr.Business(apperr.CodeDuckSold, "duck %s has been sold and cannot be deleted", duck.Name))
	}

	if err := h.store.DeleteDuck(ctx, id); err != nil {
		return writeError(c, apperr.Internal(err, "failed to delete duck"))
	}

	prometheus.DuckOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Duck deleted", zap.Uint("duck_id", id))
	return c.NoContent(http.StatusNoContent)
}
