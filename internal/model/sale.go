package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Sale is an immutable record of a completed transaction. A sale links
// every duck it covered through the sale_ducks join table, so a
// multi-duck purchase is a single priced record rather than one row
// per duck.
type Sale struct {
	ID uint `json:"id" gorm:"primarykey"`

	Ducks      []Duck   `json:"ducks,omitempty" gorm:"many2many:sale_ducks"`
	CustomerID uint     `json:"customer_id" gorm:"not null;index"`
	Customer   Customer `json:"-" gorm:"foreignKey:CustomerID"`
	SellerID   uint     `json:"seller_id" gorm:"not null;index"`
	Seller     Seller   `json:"-" gorm:"foreignKey:SellerID"`

	OriginalPrice  decimal.Decimal `json:"original_price" gorm:"type:decimal(10,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(10,2);not null"`
	FinalPrice     decimal.Decimal `json:"final_price" gorm:"type:decimal(10,2);not null"`

	SaleDate  time.Time      `json:"sale_date" gorm:"not null;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// DuckIDs returns the ids of every duck covered by the sale.
func (s *Sale) DuckIDs() []uint {
	ids := make([]uint, 0, len(s.Ducks))
	for _, d := range s.Ducks {
		ids = append(ids, d.ID)
	}
	return ids
}
