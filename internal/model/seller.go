package model

import (
	"time"

	"gorm.io/gorm"
)

// Seller represents an employee who facilitates sales. CPF and
// EmployeeID are both unique across sellers.
type Seller struct {
	ID         uint   `json:"id" gorm:"primarykey"`
	Name       string `json:"name" gorm:"type:varchar(255);not null"`
	CPF        string `json:"cpf" gorm:"type:varchar(14);uniqueIndex;not null"`
	EmployeeID string `json:"employee_id" gorm:"type:varchar(32);uniqueIndex;not null"`

	RegistrationDate time.Time      `json:"registration_date" gorm:"not null"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// NewSeller builds a seller and stamps its registration date.
func NewSeller(name, cpf, employeeID string) *Seller {
	return &Seller{
		Name:             name,
		CPF:              cpf,
		EmployeeID:       employeeID,
		RegistrationDate: time.Now(),
	}
}
