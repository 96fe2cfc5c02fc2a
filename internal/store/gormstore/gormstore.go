// Package gormstore implements store.Store on top of GORM/Postgres.
package gormstore

import (
	"context"
	"errors"
	"time"

	"duckfarm/internal/model"
	"duckfarm/internal/store"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the Postgres-backed entity store.
type Store struct {
	db   *gorm.DB
	inTx bool
}

// New wraps db in a Store.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Tx runs fn inside a single database transaction. Duck lookups made
// through the transactional store take FOR UPDATE row locks.
func (s *Store) Tx(ctx context.Context, fn func(store.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, inTx: true})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// Ducks

func (s *Store) CreateDuck(ctx context.Context, d *model.Duck) error {
	return s.db.WithContext(ctx).Create(d).Error
}

func (s *Store) SaveDuck(ctx context.Context, d *model.Duck) error {
	return s.db.WithContext(ctx).Save(d).Error
}

func (s *Store) FindDuckByID(ctx context.Context, id uint) (*model.Duck, error) {
	var d model.Duck
	if err := s.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) FindDucksByIDs(ctx context.Context, ids []uint) ([]model.Duck, error) {
	q := s.db.WithContext(ctx)
	if s.inTx {
		// Serializes concurrent sales touching the same ducks: the second
		// transaction blocks here and re-reads the committed status.
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ducks []model.Duck
	if err := q.Where("id IN ?", ids).Find(&ducks).Error; err != nil {
		return nil, err
	}
	return ducks, nil
}

func (s *Store) FindDucksByStatus(ctx context.Context, status model.DuckStatus) ([]model.Duck, error) {
	var ducks []model.Duck
	err := s.db.WithContext(ctx).Where("status = ?", status).Find(&ducks).Error
	return ducks, err
}

func (s *Store) FindAllDucks(ctx context.Context) ([]model.Duck, error) {
	var ducks []model.Duck
	err := s.db.WithContext(ctx).Find(&ducks).Error
	return ducks, err
}

func (s *Store) DeleteDuck(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Duck{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Customers

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) SaveCustomer(ctx context.Context, c *model.Customer) error {
	return s.db.WithContext(ctx).Save(c).Error
}

func (s *Store) FindCustomerByID(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CustomerCPFExists(ctx context.Context, cpf string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Customer{}).Where("cpf = ?", cpf).Count(&count).Error
	return count > 0, err
}

func (s *Store) FindCustomersByEligibility(ctx context.Context, eligible bool) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).Where("discount_eligible = ?", eligible).Find(&customers).Error
	return customers, err
}

func (s *Store) FindAllCustomers(ctx context.Context) ([]model.Customer, error) {
	var customers []model.Customer
	err := s.db.WithContext(ctx).Find(&customers).Error
	return customers, err
}

func (s *Store) DeleteCustomer(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Sellers

func (s *Store) CreateSeller(ctx context.Context, sl *model.Seller) error {
	return s.db.WithContext(ctx).Create(sl).Error
}

func (s *Store) SaveSeller(ctx context.Context, sl *model.Seller) error {
	return s.db.WithContext(ctx).Save(sl).Error
}

func (s *Store) FindSellerByID(ctx context.Context, id uint) (*model.Seller, error) {
	var sl model.Seller
	if err := s.db.WithContext(ctx).First(&sl, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sl, nil
}

func (s *Store) FindAllSellers(ctx context.Context) ([]model.Seller, error) {
	var sellers []model.Seller
	err := s.db.WithContext(ctx).Find(&sellers).Error
	return sellers, err
}

func (s *Store) SellerCPFExists(ctx context.Context, cpf string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Seller{}).Where("cpf = ?", cpf).Count(&count).Error
	return count > 0, err
}

func (s *Store) SellerEmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Seller{}).Where("employee_id = ?", employeeID).Count(&count).Error
	return count > 0, err
}

func (s *Store) CountSalesBySeller(ctx context.Context, sellerID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Sale{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, err
}

func (s *Store) DeleteSeller(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Seller{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Sales

func (s *Store) saleQuery(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Ducks").
		Preload("Customer").
		Preload("Seller")
}

func (s *Store) CreateSale(ctx context.Context, sale *model.Sale) error {
	// The attached ducks already exist; only the sale row and the join
	// rows are inserted here.
	return s.db.WithContext(ctx).
		Omit("Ducks.*").
		Create(sale).Error
}

func (s *Store) FindSaleByID(ctx context.Context, id uint) (*model.Sale, error) {
	var sale model.Sale
	if err := s.saleQuery(ctx).First(&sale, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &sale, nil
}

func (s *Store) FindAllSales(ctx context.Context) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.saleQuery(ctx).Find(&sales).Error
	return sales, err
}

func (s *Store) FindSalesByCustomerID(ctx context.Context, customerID uint) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.saleQuery(ctx).Where("customer_id = ?", customerID).Find(&sales).Error
	return sales, err
}

func (s *Store) FindSalesBySellerID(ctx context.Context, sellerID uint) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.saleQuery(ctx).Where("seller_id = ?", sellerID).Find(&sales).Error
	return sales, err
}

func (s *Store) FindSalesInRange(ctx context.Context, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.saleQuery(ctx).
		Where("sale_date BETWEEN ? AND ?", start, end).
		Find(&sales).Error
	return sales, err
}

func (s *Store) FindSalesBySellerInRange(ctx context.Context, sellerID uint, start, end time.Time) ([]model.Sale, error) {
	var sales []model.Sale
	err := s.saleQuery(ctx).
		Where("seller_id = ? AND sale_date BETWEEN ? AND ?", sellerID, start, end).
		Find(&sales).Error
	return sales, err
}

func (s *Store) DeleteSale(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&model.Sale{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Users

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *Store) FindUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}
