package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Budget struct {
	gorm.Model
	UserID    uint            `json:"userID" gorm:"not null;index"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(18,2)"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`

	BudgetCategories []BudgetCategory `json:"budgetCategories,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// BudgetCategory allocates a slice of a budget to one category. SpentAmount
// is advanced by the ledger whenever a completed expense posts against the
// category inside the budget window.
type BudgetCategory struct {
	gorm.Model
	BudgetID        uint            `json:"budgetID" gorm:"not null;index"`
	CategoryID      uint            `json:"categoryID" gorm:"not null;index"`
	AllocatedAmount decimal.Decimal `json:"allocatedAmount" gorm:"type:numeric(18,2)"`
	SpentAmount     decimal.Decimal `json:"spentAmount" gorm:"type:numeric(18,2);default:0"`

	Budget   Budget   `json:"budget,omitempty" gorm:"foreignKey:BudgetID"`
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}
