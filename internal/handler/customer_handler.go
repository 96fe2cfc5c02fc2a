package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"duckfarm/internal/apperr"
	"duckfarm/internal/model"
	"duckfarm/internal/store"
	"duckfarm/pkg/logger"
	"duckfarm/prometheus"
)

// CustomerHandler serves customer endpoints.
type CustomerHandler struct {
	store store.Store
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(st store.Store) *CustomerHandler {
	return &CustomerHandler{store: st}
}

// CustomerRequest defines the structure for customer creation/update requests
type CustomerRequest struct {
	Name             string `json:"name"`
	CPF              string `json:"cpf"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	DiscountEligible bool   `json:"discount_eligible"`
}

func (r *CustomerRequest) validate() error {
	if r.Name == "" {
		return apperr.Invalid("name is required")
	}
	if r.CPF == "" {
		return apperr.Invalid("cpf is required")
	}
	return nil
}

// CreateCustomer handles customer registration
func (h *CustomerHandler) CreateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if err := req.validate(); err != nil {
		return writeError(c, err)
	}

	taken, err := h.store.CustomerCPFExists(ctx, req.CPF)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to check cpf"))
	}
	if taken {
		return writeError(c, apperr.Business(apperr.CodeCPFTaken, "cpf %s is already registered", req.CPF))
	}

	customer := model.NewCustomer(req.Name, req.CPF, req.Phone, req.Address, req.DiscountEligible)
	if err := h.store.CreateCustomer(ctx, customer); err != nil {
		return writeError(c, apperr.Internal(err, "failed to create customer"))
	}

	prometheus.CustomerOperationsCounter.WithLabelValues("create").Inc()
	log.Info("Customer created", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusCreated, customer)
}

// GetCustomer handles retrieving a single customer by ID
func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	customer, err := h.store.FindCustomerByID(c.Request().Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("customer not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve customer"))
	}

	return c.JSON(http.StatusOK, customer)
}

// ListCustomers handles retrieving all customers with optional
// discount-eligibility filtering
func (h *CustomerHandler) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	if raw := c.QueryParam("discount_eligible"); raw != "" {
		eligible, err := strconv.ParseBool(raw)
		if err != nil {
			return writeError(c, apperr.Invalid("invalid discount_eligible parameter: %s", raw))
		}
		customers, err := h.store.FindCustomersByEligibility(ctx, eligible)
		if err != nil {
			return writeError(c, apperr.Internal(err, "failed to retrieve customers"))
		}
		return c.JSON(http.StatusOK, customers)
	}

	customers, err := h.store.FindAllCustomers(ctx)
	if err != nil {
		return writeError(c, apperr.Internal(err, "failed to retrieve customers"))
	}
	return c.JSON(http.StatusOK, customers)
}

// UpdateCustomer handles updating a customer's registration data
func (h *CustomerHandler) UpdateCustomer(c echo.Context) error {
	log := logger.FromEcho(c)
	ctx := c.Request().Context()

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	var req CustomerRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, apperr.Invalid("invalid request body"))
	}
	if err := req.validate(); err != nil {
		return writeError(c, err)
	}

	customer, err := h.store.FindCustomerByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("customer not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to retrieve customer"))
	}

	// CPF can change, but never to one another customer holds
	if req.CPF != customer.CPF {
		taken, err := h.store.CustomerCPFExists(ctx, req.CPF)
		if err != nil {
			return writeError(c, apperr.Internal(err, "failed to check cpf"))
		}
		if taken {
			return writeError(c, apperr.Business(apperr.CodeCPFTaken, "cpf %s is already registered", req.CPF))
		}
	}

	customer.Name = req.Name
	customer.CPF = req.CPF
	customer.Phone = req.Phone
	customer.Address = req.Address
	customer.DiscountEligible = req.DiscountEligible
	if err := h.store.SaveCustomer(ctx, customer); err != nil {
		return writeError(c, apperr.Internal(err, "failed to update customer"))
	}

	prometheus.CustomerOperationsCounter.WithLabelValues("update").Inc()
	log.Info("Customer updated", zap.Uint("customer_id", customer.ID))
	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer handles removing a customer
func (h *CustomerHandler) DeleteCustomer(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}

	if err := h.store.DeleteCustomer(c.Request().Context(), id); err != nil {
		if err == store.ErrNotFound {
			return writeError(c, apperr.NotFound("customer not found"))
		}
		return writeError(c, apperr.Internal(err, "failed to delete customer"))
	}

	prometheus.CustomerOperationsCounter.WithLabelValues("delete").Inc()
	log.Info("Customer deleted", zap.Uint("customer_id", id))
	return c.NoContent(http.StatusNoContent)
}
