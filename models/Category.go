package models

import "gorm.io/gorm"

type CategoryType string

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryExpense CategoryType = "EXPENSE"
)

func (t CategoryType) Valid() bool {
	return t == CategoryIncome || t == CategoryExpense
}

type Category struct {
	gorm.Model
	UserID uint         `json:"userID" gorm:"not null;index"`
	Name   string       `json:"name"`
	Type   CategoryType `json:"type" gorm:"type:varchar(20);default:'EXPENSE'"`
	Icon   string       `json:"icon"`

	SubCategories    []SubCategory    `json:"subCategories,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Transactions     []Transaction    `json:"transactions,omitempty"`
	BudgetCategories []BudgetCategory `json:"budgetCategories,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

type SubCategory struct {
	gorm.Model
	CategoryID uint   `json:"categoryID" gorm:"not null;index"`
	Name       string `json:"name"`

	Category     Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Transactions []Transaction `json:"transactions,omitempty"`
}
