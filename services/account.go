package services

import (
	"errors"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FormatAmount renders a balance with exactly two decimal places, the
// presentation used by every summary endpoint.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type TypeBalance struct {
	TotalBalance     decimal.Decimal `json:"totalBalance"`
	FormattedBalance string          `json:"formattedBalance"`
}

type AccountSummary struct {
	TotalBalance string                 `json:"totalBalance"`
	ByType       map[string]TypeBalance `json:"byType"`
	Accounts     []models.Account       `json:"accounts"`
}

// BalancesByType sums a user's account balances per account type. Every
// known type appears in the result, zero-valued when the user holds no
// account of that type.
func BalancesByType(db *gorm.DB, userID uint) (*AccountSummary, error) {
	var accounts []models.Account
	if err := db.Where("user_id = ?", userID).Order("created_at asc").Find(&accounts).Error; err != nil {
		return nil, Internal(err)
	}

	totals := make(map[models.AccountType]decimal.Decimal, len(models.AccountTypes))
	for _, t := range models.AccountTypes {
		totals[t] = decimal.Zero
	}
	total := decimal.Zero
	for _, account := range accounts {
		totals[account.Type] = totals[account.Type].Add(account.CurrentBalance)
		total = total.Add(account.CurrentBalance)
	}

	byType := make(map[string]TypeBalance, len(models.AccountTypes))
	for _, t := range models.AccountTypes {
		byType[string(t)] = TypeBalance{
			TotalBalance:     totals[t],
			FormattedBalance: FormatAmount(totals[t]),
		}
	}
	return &AccountSummary{
		TotalBalance: FormatAmount(total),
		ByType:       byType,
		Accounts:     accounts,
	}, nil
}

// GetOwnedAccount fetches an account and verifies it belongs to the user.
func GetOwnedAccount(db *gorm.DB, accountID uint, userID uint) (*models.Account, error) {
	var account models.Account
	if err := db.First(&account, accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("Account not found")
		}
		return nil, Internal(err)
	}
	if account.UserID != userID {
		return nil, Unauthorized("Account does not belong to this user")
	}
	return &account, nil
}

// DeleteAccount removes an account and its transactions. An account still
// holding a balance cannot be deleted.
func DeleteAccount(db *gorm.DB, accountID uint, userID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		account, err := lockOwnedAccount(tx, accountID, userID)
		if err != nil {
			return err
		}
		if !account.CurrentBalance.IsZero() {
			return Conflict("Account balance must be zero before deletion")
		}
		if err := tx.Where("account_id = ?", accountID).Delete(&models.Transaction{}).Error; err != nil {
			return Internal(err)
		}
		if err := tx.Delete(account).Error; err != nil {
			return Internal(err)
		}
		return nil
	})
}
