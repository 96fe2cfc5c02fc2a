package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// SellerHandler serves seller endpoints.
type SellerHandler struct {
	store store.Store
}

// NewSellerHandler creates a new seller handler.
func NewSellerHandler(st store.Store) *SellerHandler {
	return &SellerHandler{store: st}
}

// SellerRequest defines the structure for seller creation/update requests
type SellerRequest struct {
	Name       string `json:"name"`
	CPF        string `json:"cpf"`
	EmployeeID string `json:"employee_id"`
}

func (r *SellerRequest) validate() error {
	if r.Name == "" {
		return apperr.Invalid("name is required")
	}
	if r.CPF == "" {
		return apperr.Invalid("cpf is required")
	}
	if r.EmployeeID == "" {
		return apperr.Invalid("employee_id is required")
	}
	return nil
}

// CreateSeller handles seller registration
func (h *SellerHandler) CreateSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req SellerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if err := req.validate(); err != nil {
		return writeError(c, err)
	}

	cpfTaken, err := h.store.SellerCPFExists(ctx, req.CPF)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to check cpf"))
	}
	if cpfTaken {
		return writeError(c, apperr.Business(apperr.CodeCPFTaken, "cpf %s is already registered", req.CPF))
	}

	idTaken, err := h.store.SellerEmployeeIDExists(ctx, req.EmployeeID)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to check employee id"))
	}
	if idTaken {
		return writeError(c, apperr.Business(apperr.CodeEmployeeIDTaken, "employee id %s is already registered", req.EmployeeID))
	}

	seller := model.NewSeller(req.Name, req.CPF, req.EmployeeID)
	if err := h.store.CreateSeller(ctx, seller); err != nil {
		return writeError(c, apperr.Internal(err, "failed to create seller"))
	}

	prometheus.SellerOperationsCounter.WithLabelValues("create").Inc()
	log.Info("Seller created", zap.Uint("seller_id", seller.ID))
	return c.JSON(http.StatusCreated, seller)
}

// GetSeller handles retrieving a single seller by ID
func (h *SellerHandler) GetSeller(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	seller, err := h.store.FindSellerByID(c.Request().Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("seller not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve seller"))
	}

	return c.JSON(http.StatusOK, seller)
}

// ListSellers handles retrieving all sellers
func (h *SellerHandler) ListSellers(c echo.Context) error {
	sellers, err := h.store.FindAllSellers(c.Request().Context())
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to retrieve sellers"))
	}
	return c.JSON(http.StatusOK, sellers)
}

// UpdateSeller handles updating a seller's registration data
func (h *SellerHandler) UpdateSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req SellerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if err := req.validate(); err != nil {
		return writeError(c, err)
	}

	seller, err := h.store.FindSellerByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("seller not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve seller"))
	}

	if req.CPF != seller.CPF {
		taken, err := h.store.SellerCPFExists(ctx, req.CPF)
		if err != nil {
			return writeError(c, apperr.Internal(err, "failed to check cpf"))
		}
		if taken {
			return writeError(c, apperr.Business(apperr.CodeCPFTaken, "cpf %s is already registered", req.CPF))
		}
	}

	if req.EmployeeID != seller.EmployeeID {
		taken, err := h.store.SellerEmployeeIDExists(ctx, req.EmployeeID)
		if err != nil {
			return writeError(c, apperr.Internal(err, "failed to check employee id"))
		}
		if taken {
			return writeError(c, apperr.Business(apperr.CodeEmployeeIDTaken, "employee id %s is already registered", req.EmployeeID))
		}
	}

	seller.Name = req.Name
	seller.CPF = req.CPF
	seller.EmployeeID = req.EmployeeID
	if err := h.store.SaveSeller(ctx, seller); err != nil {
		return writeError(c, apperr.Internal(err, "failed to update seller"))
	}

	prometheus.SellerOperationsCounter.WithLabelValues("update").Inc()
	log.Info("Seller updated", zap.Uint("seller_id", seller.ID))
	return c.JSON(http.StatusOK, seller)
}

// DeleteSeller handles removing a seller. Sellers referenced by sales
// stay in place, the ledger depends on them.
func (h *SellerHandler) DeleteSeller(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	seller, err := h.store.FindSellerByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("seller not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve seller"))
	}

	count, err := h.store.CountSalesBySeller(ctx, id)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to count sales"))
	}
	if count > 0 {
		return writeError(c, apperr.Business(apperr.CodeSellerHasSales, "seller %s has %d recorded sales and cannot be deleted", seller.Name, count))
	}

	if err := h.store.DeleteSeller(ctx, id); err != nil {
		return writeError(c, apperr.Internal(err, "failed to delete seller"))
	}

	prometheus.SellerOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Seller deleted", zap.Uint("seller_id", id))
	return c.NoContent(http.StatusNoContent)
}
