package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionCompleted TransactionStatus = "COMPLETED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPending, TransactionCompleted, TransactionCancelled:
		return true
	}
	return false
}

// Transaction records a single signed movement on an account. Amount is
// always positive; Type carries the sign.
type Transaction struct {
	gorm.Model
	UserID          uint              `json:"userID" gorm:"not null;index"`
	AccountID       uint              `json:"accountID" gorm:"not null;index"`
	CategoryID      uint              `json:"categoryID" gorm:"not null;index"`
	SubCategoryID   *uint             `json:"subCategoryID"`
	Amount          decimal.Decimal   `json:"amount" gorm:"type:numeric(18,2)"`
	Type            TransactionType   `json:"type" gorm:"type:varchar(20);default:'EXPENSE';index"`
	Status          TransactionStatus `json:"status" gorm:"type:varchar(20);default:'COMPLETED';index"`
	Description     string            `json:"description"`
	TransactionDate time.Time         `json:"transactionDate" gorm:"index"`

	Account     Account      `json:"account" gorm:"foreignKey:AccountID"`
	Category    Category     `json:"category" gorm:"foreignKey:CategoryID"`
	SubCategory *SubCategory `json:"subCategory,omitempty" gorm:"foreignKey:SubCategoryID"`
}
