package services

import (
	"errors"
	"time"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The ledger invariant: an account's CurrentBalance always equals the sum
// of effects of its non-cancelled transactions. Every balance write happens
// in the same database transaction as the Transaction row it accounts for,
// with the account row locked, so no intermediate state is observable and
// concurrent postings serialize per account.

// Effect returns the signed balance delta a transaction applies: positive
// for income, negative for expense. Cancelled transactions have no effect.
func Effect(t models.TransactionType, status models.TransactionStatus, amount decimal.Decimal) decimal.Decimal {
	if status == models.TransactionCancelled {
		return decimal.Zero
	}
	if t == models.TransactionExpense {
		return amount.Neg()
	}
	return amount
}

type PostTransactionInput struct {
	AccountID       uint
	CategoryID      uint
	SubCategoryID   *uint
	Amount          decimal.Decimal
	Type            models.TransactionType
	Status          models.TransactionStatus
	Description     string
	TransactionDate time.Time
}

type PostTransactionResult struct {
	Transaction models.Transaction `json:"transaction"`
	Account     models.Account     `json:"account"`

	// Budget allocations pushed past their limit by this posting, for the
	// caller to raise alerts on.
	ExceededBudgets []models.BudgetCategory `json:"-"`
}

// PostTransaction writes the transaction row and the account balance as one
// atomic unit. An expense that would drive the balance negative is rejected
// before any write.
func PostTransaction(db *gorm.DB, userID uint, input PostTransactionInput) (*PostTransactionResult, error) {
	if !input.Amount.IsPositive() {
		return nil, Validation("amount must be positive")
	}
	txType := input.Type
	if txType == "" {
		txType = models.TransactionExpense
	}
	if !txType.Valid() {
		return nil, Validation("invalid transaction type")
	}
	status := input.Status
	if status == "" {
		status = models.TransactionCompleted
	}
	if !status.Valid() {
		return nil, Validation("invalid transaction status")
	}
	txDate := input.TransactionDate
	if txDate.IsZero() {
		txDate = time.Now()
	}

	result := &PostTransactionResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		account, err := lockOwnedAccount(tx, input.AccountID, userID)
		if err != nil {
			return err
		}
		if err := checkOwnedCategory(tx, input.CategoryID, input.SubCategoryID, userID); err != nil {
			return err
		}

		newBalance := account.CurrentBalance.Add(Effect(txType, status, input.Amount))
		if newBalance.IsNegative() {
			return InsufficientFunds("Insufficient balance for this transaction")
		}

		transaction := models.Transaction{
			UserID:          userID,
			AccountID:       input.AccountID,
			CategoryID:      input.CategoryID,
			SubCategoryID:   input.SubCategoryID,
			Amount:          input.Amount,
			Type:            txType,
			Status:          status,
			Description:     input.Description,
			TransactionDate: txDate,
		}
		if err := tx.Create(&transaction).Error; err != nil {
			return Internal(err)
		}

		if err := tx.Model(account).Update("current_balance", newBalance).Error; err != nil {
			return Internal(err)
		}
		account.CurrentBalance = newBalance

		exceeded, err := advanceBudgetSpend(tx, userID, input.CategoryID, txDate,
			spendEffect(txType, status, input.Amount))
		if err != nil {
			return err
		}

		result.Transaction = transaction
		result.Account = *account
		result.ExceededBudgets = exceeded
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.Preload("Account").Preload("Category").Preload("SubCategory").
		First(&result.Transaction, result.Transaction.ID)
	return result, nil
}

type UpdateTransactionInput struct {
	AccountID       *uint
	CategoryID      *uint
	SubCategoryID   *uint
	Amount          *decimal.Decimal
	Type            *models.TransactionType
	Status          *models.TransactionStatus
	Description     *string
	TransactionDate *time.Time
}

// UpdateTransaction reverses the old effect and applies the new one in a
// single atomic unit, so the ledger invariant survives edits. Moving a
// transaction between accounts adjusts both balances.
func UpdateTransaction(db *gorm.DB, userID uint, transactionID uint, input UpdateTransactionInput) (*PostTransactionResult, error) {
	if input.Amount != nil && !input.Amount.IsPositive() {
		return nil, Validation("amount must be positive")
	}
	if input.Type != nil && !input.Type.Valid() {
		return nil, Validation("invalid transaction type")
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, Validation("invalid transaction status")
	}

	result := &PostTransactionResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Transaction not found or unauthorized")
			}
			return Internal(err)
		}

		newAccountID := transaction.AccountID
		if input.AccountID != nil {
			newAccountID = *input.AccountID
		}
		newCategoryID := transaction.CategoryID
		if input.CategoryID != nil {
			newCategoryID = *input.CategoryID
		}
		newSubCategoryID := transaction.SubCategoryID
		if input.SubCategoryID != nil {
			newSubCategoryID = input.SubCategoryID
		}
		newAmount := transaction.Amount
		if input.Amount != nil {
			newAmount = *input.Amount
		}
		newType := transaction.Type
		if input.Type != nil {
			newType = *input.Type
		}
		newStatus := transaction.Status
		if input.Status != nil {
			newStatus = *input.Status
		}
		newDate := transaction.TransactionDate
		if input.TransactionDate != nil {
			newDate = *input.TransactionDate
		}

		if newCategoryID != transaction.CategoryID || newSubCategoryID != transaction.SubCategoryID {
			if err := checkOwnedCategory(tx, newCategoryID, newSubCategoryID, userID); err != nil {
				return err
			}
		}

		oldAccount, newAccount, err := lockAccountPair(tx, transaction.AccountID, newAccountID, userID)
		if err != nil {
			return err
		}

		oldEffect := Effect(transaction.Type, transaction.Status, transaction.Amount)
		newEffect := Effect(newType, newStatus, newAmount)

		oldBalance := oldAccount.CurrentBalance.Sub(oldEffect)
		newBalance := newAccount.CurrentBalance
		if oldAccount.ID == newAccount.ID {
			newBalance = oldBalance
		}
		newBalance = newBalance.Add(newEffect)

		if oldBalance.IsNegative() || newBalance.IsNegative() {
			return InsufficientFunds("Insufficient balance for this transaction")
		}

		// Roll the old spend out of budgets before recording the new one.
		oldSpend := spendEffect(transaction.Type, transaction.Status, transaction.Amount)
		if _, err := advanceBudgetSpend(tx, userID, transaction.CategoryID, transaction.TransactionDate, oldSpend.Neg()); err != nil {
			return err
		}
		exceeded, err := advanceBudgetSpend(tx, userID, newCategoryID, newDate, spendEffect(newType, newStatus, newAmount))
		if err != nil {
			return err
		}

		if oldAccount.ID != newAccount.ID {
			if err := tx.Model(oldAccount).Update("current_balance", oldBalance).Error; err != nil {
				return Internal(err)
			}
		}
		if err := tx.Model(newAccount).Update("current_balance", newBalance).Error; err != nil {
			return Internal(err)
		}
		newAccount.CurrentBalance = newBalance

		transaction.AccountID = newAccountID
		transaction.CategoryID = newCategoryID
		transaction.SubCategoryID = newSubCategoryID
		transaction.Amount = newAmount
		transaction.Type = newType
		transaction.Status = newStatus
		transaction.TransactionDate = newDate
		if input.Description != nil {
			transaction.Description = *input.Description
		}
		if err := tx.Save(&transaction).Error; err != nil {
			return Internal(err)
		}

		result.Transaction = transaction
		result.Account = *newAccount
		result.ExceededBudgets = exceeded
		return nil
	})
	if err != nil {
		return nil, err
	}

	db.Preload("Account").Preload("Category").Preload("SubCategory").
		First(&result.Transaction, result.Transaction.ID)
	return result, nil
}

// DeleteTransaction reverses the transaction's effect on its account and
// removes the row, atomically.
func DeleteTransaction(db *gorm.DB, userID uint, transactionID uint) (*models.Account, error) {
	var account models.Account
	err := db.Transaction(func(tx *gorm.DB) error {
		var transaction models.Transaction
		if err := tx.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("Transaction not found or unauthorized")
			}
			return Internal(err)
		}

		acc, err := lockOwnedAccount(tx, transaction.AccountID, userID)
		if err != nil {
			return err
		}

		effect := Effect(transaction.Type, transaction.Status, transaction.Amount)
		newBalance := acc.CurrentBalance.Sub(effect)
		if newBalance.IsNegative() {
			return InsufficientFunds("Deleting this transaction would overdraw the account")
		}

		spend := spendEffect(transaction.Type, transaction.Status, transaction.Amount)
		if _, err := advanceBudgetSpend(tx, userID, transaction.CategoryID, transaction.TransactionDate, spend.Neg()); err != nil {
			return err
		}

		if err := tx.Model(acc).Update("current_balance", newBalance).Error; err != nil {
			return Internal(err)
		}
		if err := tx.Delete(&transaction).Error; err != nil {
			return Internal(err)
		}

		acc.CurrentBalance = newBalance
		account = *acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// lockOwnedAccount fetches the account FOR UPDATE and verifies ownership.
func lockOwnedAccount(tx *gorm.DB, accountID uint, userID uint) (*models.Account, error) {
	var account models.Account
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&account, accountID).Error; err != nil {
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

// lockAccountPair locks one or two accounts in ascending id order so two
// concurrent cross-account updates cannot deadlock.
func lockAccountPair(tx *gorm.DB, oldID, newID uint, userID uint) (*models.Account, *models.Account, error) {
	if oldID == newID {
		account, err := lockOwnedAccount(tx, oldID, userID)
		if err != nil {
			return nil, nil, err
		}
		return account, account, nil
	}

	firstID, secondID := oldID, newID
	if secondID < firstID {
		firstID, secondID = secondID, firstID
	}
	first, err := lockOwnedAccount(tx, firstID, userID)
	if err != nil {
		return nil, nil, err
	}
	second, err := lockOwnedAccount(tx, secondID, userID)
	if err != nil {
		return nil, nil, err
	}
	if firstID == oldID {
		return first, second, nil
	}
	return second, first, nil
}

func checkOwnedCategory(tx *gorm.DB, categoryID uint, subCategoryID *uint, userID uint) error {
	var category models.Category
	if err := tx.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("Category not found")
		}
		return Internal(err)
	}
	if category.UserID != userID {
		return Unauthorized("Category does not belong to this user")
	}
	if subCategoryID != nil {
		var sub models.SubCategory
		if err := tx.First(&sub, *subCategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NotFound("SubCategory not found")
			}
			return Internal(err)
		}
		if sub.CategoryID != categoryID {
			return Validation("subCategory does not belong to the category")
		}
	}
	return nil
}

// spendEffect is the amount a transaction counts against budget
// allocations. Only effective expenses consume budget; income never rolls
// spend back, keeping SpentAmount the exact sum of non-reversed expenses.
func spendEffect(t models.TransactionType, status models.TransactionStatus, amount decimal.Decimal) decimal.Decimal {
	if t != models.TransactionExpense || status == models.TransactionCancelled {
		return decimal.Zero
	}
	return amount
}

// advanceBudgetSpend adds spendDelta to the SpentAmount of every allocation
// for the category whose budget window contains date, and returns the
// allocations the delta pushed over their limit. A negative delta (an
// expense reversal) rolls spend back and never triggers alerts. The zero
// floor only matters for expenses posted before their allocation existed.
func advanceBudgetSpend(tx *gorm.DB, userID uint, categoryID uint, date time.Time, spendDelta decimal.Decimal) ([]models.BudgetCategory, error) {
	if spendDelta.IsZero() {
		return nil, nil
	}

	var allocations []models.BudgetCategory
	err := tx.
		Joins("JOIN budgets ON budgets.id = budget_categories.budget_id").
		Where("budgets.user_id = ? AND budget_categories.category_id = ?", userID, categoryID).
		Where("budgets.start_date <= ? AND budgets.end_date >= ?", date, date).
		Find(&allocations).Error
	if err != nil {
		return nil, Internal(err)
	}

	var exceeded []models.BudgetCategory
	for i := range allocations {
		bc := &allocations[i]
		wasOver := bc.SpentAmount.GreaterThan(bc.AllocatedAmount)
		bc.SpentAmount = bc.SpentAmount.Add(spendDelta)
		if bc.SpentAmount.IsNegative() {
			bc.SpentAmount = decimal.Zero
		}
		if err := tx.Model(bc).Update("spent_amount", bc.SpentAmount).Error; err != nil {
			return nil, Internal(err)
		}
		if !wasOver && spendDelta.IsPositive() && bc.SpentAmount.GreaterThan(bc.AllocatedAmount) {
			exceeded = append(exceeded, *bc)
		}
	}
	return exceeded, nil
}
