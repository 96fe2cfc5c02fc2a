package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a buyer. The DiscountEligible flag grants a flat
// 20% discount on sale totals.
type Customer struct {
	ID               uint   `json:"id" gorm:"primarykey"`
	Name             string `json:"name" gorm:"type:varchar(255);not null"`
	CPF              string `json:"cpf" gorm:"type:varchar(14);uniqueIndex;not null"`
	Phone            string `json:"phone" gorm:"type:varchar(32);not null"`
	Address          string `json:"address" gorm:"type:varchar(255);not null"`
	DiscountEligible bool   `json:"discount_eligible" gorm:"not null;default:false"`

	RegistrationDate time.Time      `json:"registration_date" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// NewCustomer builds a customer and stamps its registration date.
func NewCustomer(name, cpf, phone, address string, discountEligible bool) *Customer {
	return &Customer{
		Name:             name,
		CPF:              cpf,
		Phone:            phone,
		Address:          address,
		DiscountEligible: discountEligible,
		RegistrationDate: time.Now(),
	}
}
