package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountType string

const (
	AccountBank        AccountType = "BANK"
	AccountMobileMoney AccountType = "MOBILE_MONEY"
	AccountCash        AccountType = "CASH"
	AccountCrypto      AccountType = "CRYPTO"
	AccountOther       AccountType = "OTHER"
)

// AccountTypes lists every known account type, in the order summaries
// render them.
var AccountTypes = []AccountType{
	AccountBank,
	AccountMobileMoney,
	AccountCash,
	AccountCrypto,
	AccountOther,
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountBank, AccountMobileMoney, AccountCash, AccountCrypto, AccountOther:
		return true
	}
	return false
}

// Account is one side of the ledger. CurrentBalance must always equal the
// sum of applied transaction effects; it is only ever written together with
// a Transaction row inside the same database transaction.
type Account struct {
	gorm.Model
	UserID         uint            `json:"userID" gorm:"not null;index"`
	Name           string          `json:"name"`
	Type           AccountType     `json:"type" gorm:"type:varchar(20);default:'BANK';index"`
	AccountNumber  int             `json:"accountNumber"`
	CurrentBalance decimal.Decimal `json:"currentBalance" gorm:"type:numeric(18,2);default:0"`
	Currency       string          `json:"currency" gorm:"type:varchar(8);default:'USD'"`

	Transactions []Transaction `json:"transactions,omitempty"`
}
