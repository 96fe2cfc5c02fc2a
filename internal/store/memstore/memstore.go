// Package memstore is an in-memory store.Store used by tests. It
// keeps records in insertion order and snapshots state around Tx so a
// failed transaction leaves nothing behind, mirroring the database
// semantics the engines rely on.
package memstore

import (
	"context"
	"sync"
	"time"

	"duckfarm/internal/model"
	"duckfarm/internal/store"
)

// Store is an in-memory entity store.
type Store struct {
	mu sync.Mutex

	ducks     []model.Duck
	customers []model.Customer
	sellers   []model.Seller
	sales     []model.Sale
	users     []model.User

	nextDuck, nextCustomer, nextSeller, nextSale, nextUser uint
}

// New returns an empty store.
func New() *Store {
	return &Store{nextDuck: 1, nextCustomer: 1, nextSeller: 1, nextSale: 1, nextUser: 1}
}

// Tx runs fn and restores the pre-transaction snapshot if fn fails.
func (s *Store) Tx(ctx context.Context, fn func(store.Store) error) error {
	s.mu.Lock()
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.mu.Unlock()
		return err
	}
	return nil
}

type snapshot struct {
	ducks     []model.Duck
	customers []model.Customer
	sellers   []model.Seller
	sales     []model.Sale
	users     []model.User

	nextDuck, nextCustomer, nextSeller, nextSale, nextUser uint
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		ducks:     copyDucks(s.ducks),
		customers: append([]model.Customer(nil), s.customers...),
		sellers:   append([]model.Seller(nil), s.sellers...),
		sales:     copySales(s.sales),
		users:     append([]model.User(nil), s.users...),

		nextDuck: s.nextDuck, nextCustomer: s.nextCustomer,
		nextSeller: s.nextSeller, nextSale: s.nextSale, nextUser: s.nextUser,
	}
}

func (s *Store) restore(snap snapshot) {
	s.ducks, s.customers, s.sellers, s.sales, s.users =
		snap.ducks, snap.customers, snap.sellers, snap.sales, snap.users
	s.nextDuck, s.nextCustomer, s.nextSeller, s.nextSale, s.nextUser =
		snap.nextDuck, snap.nextCustomer, snap.nextSeller, snap.nextSale, snap.nextUser
}

func copyDucks(in []model.Duck) []model.Duck {
	return append([]model.Duck(nil), in...)
}

func copySales(in []model.Sale) []model.Sale {
	out := make([]model.Sale, len(in))
	for i, sale := range in {
		sale.Ducks = copyDucks(sale.Ducks)
		out[i] = sale
	}
	return out
}

// Ducks

func (s *Store) CreateDuck(_ context.Context, d *model.Duck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.ID = s.nextDuck
	s.nextDuck++
	s.ducks = append(s.ducks, *d)
	return nil
}

func (s *Store) SaveDuck(_ context.Context, d *model.Duck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ducks {
		if s.ducks[i].ID == d.ID {
			s.ducks[i] = *d
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindDuckByID(_ context.Context, id uint) (*model.Duck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.ducks {
		if d.ID == id {
			d := d
			return &d, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindDucksByIDs(_ context.Context, ids []uint) ([]model.Duck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// One row per matching duck, like SQL IN: a repeated id resolves
	// a single record.
	wanted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var out []model.Duck
	for _, d := range s.ducks {
		if wanted[d.ID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) FindDucksByStatus(_ context.Context, status model.DuckStatus) ([]model.Duck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Duck
	for _, d := range s.ducks {
		if d.Status == status {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) FindAllDucks(_ context.Context) ([]model.Duck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyDucks(s.ducks), nil
}

func (s *Store) DeleteDuck(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.ducks {
		if s.ducks[i].ID == id {
			s.ducks = append(s.ducks[:i], s.ducks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Customers

func (s *Store) CreateCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextCustomer
	s.nextCustomer++
	s.customers = append(s.customers, *c)
	return nil
}

func (s *Store) SaveCustomer(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == c.ID {
			s.customers[i] = *c
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindCustomerByID(_ context.Context, id uint) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CustomerCPFExists(_ context.Context, cpf string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) FindCustomersByEligibility(_ context.Context, eligible bool) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Customer
	for _, c := range s.customers {
		if c.DiscountEligible == eligible {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) FindAllCustomers(_ context.Context) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Customer(nil), s.customers...), nil
}

func (s *Store) DeleteCustomer(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers = append(s.customers[:i], s.customers[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Sellers

func (s *Store) CreateSeller(_ context.Context, sl *model.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sl.ID = s.nextSeller
	s.nextSeller++
	s.sellers = append(s.sellers, *sl)
	return nil
}

func (s *Store) SaveSeller(_ context.Context, sl *model.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sellers {
		if s.sellers[i].ID == sl.ID {
			s.sellers[i] = *sl
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindSellerByID(_ context.Context, id uint) (*model.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.sellers {
		if sl.ID == id {
			sl := sl
			return &sl, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) FindAllSellers(_ context.Context) ([]model.Seller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Seller(nil), s.sellers...), nil
}

func (s *Store) SellerCPFExists(_ context.Context, cpf string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.sellers {
		if sl.CPF == cpf {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) SellerEmployeeIDExists(_ context.Context, employeeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sl := range s.sellers {
		if sl.EmployeeID == employeeID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CountSalesBySeller(_ context.Context, sellerID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, sale := range s.sales {
		if sale.SellerID == sellerID {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteSeller(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sellers {
		if s.sellers[i].ID == id {
			s.sellers = append(s.sellers[:i], s.sellers[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Sales

func (s *Store) CreateSale(_ context.Context, sale *model.Sale) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sale.ID = s.nextSale
	s.nextSale++
	stored := *sale
	stored.Ducks = copyDucks(sale.Ducks)
	s.sales = append(s.sales, stored)
	return nil
}

// hydrate fills the customer and seller associations the way the
// database store's preloads do.
func (s *Store) hydrate(sale model.Sale) model.Sale {
	for _, c := range s.customers {
		if c.ID == sale.CustomerID {
			sale.Customer = c
			break
		}
	}
	for _, sl := range s.sellers {
		if sl.ID == sale.SellerID {
			sale.Seller = sl
			break
		}
	}
	// Re-read ducks so post-sale status changes show up.
	for i, d := range sale.Ducks {
		for _, cur := range s.ducks {
			if cur.ID == d.ID {
				sale.Ducks[i] = cur
				break
			}
		}
	}
	return sale
}

func (s *Store) FindSaleByID(_ context.Context, id uint) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sale := range s.sales {
		if sale.ID == id {
			sale.Ducks = copyDucks(sale.Ducks)
			sale = s.hydrate(sale)
			return &sale, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) findSales(match func(model.Sale) bool) []model.Sale {
	var out []model.Sale
	for _, sale := range s.sales {
		if match(sale) {
			sale.Ducks = copyDucks(sale.Ducks)
			out = append(out, s.hydrate(sale))
		}
	}
	return out
}

func (s *Store) FindAllSales(_ context.Context) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSales(func(model.Sale) bool { return true }), nil
}

func (s *Store) FindSalesByCustomerID(_ context.Context, customerID uint) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSales(func(sale model.Sale) bool { return sale.CustomerID == customerID }), nil
}

func (s *Store) FindSalesBySellerID(_ context.Context, sellerID uint) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSales(func(sale model.Sale) bool { return sale.SellerID == sellerID }), nil
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func (s *Store) FindSalesInRange(_ context.Context, start, end time.Time) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSales(func(sale model.Sale) bool { return inRange(sale.SaleDate, start, end) }), nil
}

func (s *Store) FindSalesBySellerInRange(_ context.Context, sellerID uint, start, end time.Time) ([]model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findSales(func(sale model.Sale) bool {
		return sale.SellerID == sellerID && inRange(sale.SaleDate, start, end)
	}), nil
}

func (s *Store) DeleteSale(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.sales {
		if s.sales[i].ID == id {
			s.sales = append(s.sales[:i], s.sales[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// Users

func (s *Store) CreateUser(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.nextUser
	s.nextUser++
	s.users = append(s.users, *u)
	return nil
}

func (s *Store) FindUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) UsernameExists(_ context.Context, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}
