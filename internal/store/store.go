// Package store defines the entity-store abstraction the engines and
// handlers depend on. Implementations live in gormstore (Postgres)
// and memstore (tests). The store is always constructor-injected,
// never reached through a package global.
package store

import (
	"context"
	"errors"
	"time"

	"duckfarm/internal/model"
)

// ErrNotFound is returned by every Find* method when no record
// matches. Implementations map their driver's sentinel to this one.
var ErrNotFound = errors.New("record not found")

// DuckStore covers duck inventory persistence.
type DuckStore interface {
	CreateDuck(ctx context.Context, d *model.Duck) error
	SaveDuck(ctx context.Context, d *model.Duck) error
	FindDuckByID(ctx context.Context, id uint) (*model.Duck, error)
	// FindDucksByIDs resolves only the ducks that exist; callers compare
	// lengths to detect missing ids. Inside a transaction the rows are
	// locked for update so concurrent sales of the same duck serialize.
	FindDucksByIDs(ctx context.Context, ids []uint) ([]model.Duck, error)
	FindDucksByStatus(ctx context.Context, status model.DuckStatus) ([]model.Duck, error)
	FindAllDucks(ctx context.Context) ([]model.Duck, error)
	DeleteDuck(ctx context.Context, id uint) error
}

// CustomerStore covers customer persistence.
type CustomerStore interface {
	CreateCustomer(ctx context.Context, c *model.Customer) error
	SaveCustomer(ctx context.Context, c *model.Customer) error
	FindCustomerByID(ctx context.Context, id uint) (*model.Customer, error)
	CustomerCPFExists(ctx context.Context, cpf string) (bool, error)
	FindCustomersByEligibility(ctx context.Context, eligible bool) ([]model.Customer, error)
	FindAllCustomers(ctx context.Context) ([]model.Customer, error)
	DeleteCustomer(ctx context.Context, id uint) error
}

// SellerStore covers seller persistence.
type SellerStore interface {
	CreateSeller(ctx context.Context, s *model.Seller) error
	SaveSeller(ctx context.Context, s *model.Seller) error
	FindSellerByID(ctx context.Context, id uint) (*model.Seller, error)
	FindAllSellers(ctx context.Context) ([]model.Seller, error)
	SellerCPFExists(ctx context.Context, cpf string) (bool, error)
	SellerEmployeeIDExists(ctx context.Context, employeeID string) (bool, error)
	CountSalesBySeller(ctx context.Context, sellerID uint) (int64, error)
	DeleteSeller(ctx context.Context, id uint) error
}

// SaleStore covers sale persistence. Find* methods return sales with
// their ducks, customer and seller populated.
type SaleStore interface {
	CreateSale(ctx context.Context, s *model.Sale) error
	FindSaleByID(ctx context.Context, id uint) (*model.Sale, error)
	FindAllSales(ctx context.Context) ([]model.Sale, error)
	FindSalesByCustomerID(ctx context.Context, customerID uint) ([]model.Sale, error)
	FindSalesBySellerID(ctx context.Context, sellerID uint) ([]model.Sale, error)
	FindSalesInRange(ctx context.Context, start, end time.Time) ([]model.Sale, error)
	FindSalesBySellerInRange(ctx context.Context, sellerID uint, start, end time.Time) ([]model.Sale, error)
	DeleteSale(ctx context.Context, id uint) error
}

// UserStore covers auth user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// Store is the full persistence surface. Tx runs fn against a store
// bound to a single atomic transaction: if fn returns an error,
// nothing it wrote survives.
type Store interface {
	DuckStore
	CustomerStore
	SellerStore
	SaleStore
	UserStore

	Tx(ctx context.Context, fn func(Store) error) error
}
