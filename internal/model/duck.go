package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DuckStatus is the lifecycle state of a duck in the inventory.
type DuckStatus string

const (
	// DuckAvailable means the duck can be sold.
	DuckAvailable DuckStatus = "AVAILABLE"
	// DuckSold means the duck was part of a completed sale.
	DuckSold DuckStatus = "SOLD"
	// DuckReserved means the duck is held for a specific customer.
	DuckReserved DuckStatus = "RESERVED"
)

// Valid reports whether s is one of the known statuses.
func (s DuckStatus) Valid() bool {
	switch s {
	case DuckAvailable, DuckSold, DuckReserved:
		return true
	}
	return false
}

// Duck represents a sellable inventory unit with lineage and price.
type Duck struct {
	ID       uint            `json:"id" gorm:"primarykey"`
	Name     string          `json:"name" gorm:"type:varchar(255);not null"`
	MotherID *uint           `json:"mother_id,omitempty" gorm:"index"`
	Price    decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Status   DuckStatus      `json:"status" gorm:"type:varchar(16);not null"`

	RegistrationDate time.Time      `json:"registration_date" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// NewDuck builds an AVAILABLE duck and stamps its registration date.
// Timestamps are assigned here, at construction time, not by a
// persistence hook.
func NewDuck(name string, motherID *uint, price decimal.Decimal) *Duck {
	return &Duck{
		Name:             name,
		MotherID:         motherID,
		Price:            price,
		Status:           DuckAvailable,
		RegistrationDate: time.Now(),
	}
}
