package services

import (
	"testing"

	"github.com/muhozajohn/lala-task-be/models"

	"github.com/shopspring/decimal"
)

func TestEffectSigns(t *testing.T) {
	amount := decimal.RequireFromString("75.25")

	income := Effect(models.TransactionIncome, models.TransactionCompleted, amount)
	if !income.Equal(amount) {
		t.Fatalf("income effect = %s, want %s", income, amount)
	}

	expense := Effect(models.TransactionExpense, models.TransactionCompleted, amount)
	if !expense.Equal(amount.Neg()) {
		t.Fatalf("expense effect = %s, want %s", expense, amount.Neg())
	}

	pending := Effect(models.TransactionExpense, models.TransactionPending, amount)
	if !pending.Equal(amount.Neg()) {
		t.Fatalf("pending effect = %s, want %s", pending, amount.Neg())
	}

	cancelled := Effect(models.TransactionExpense, models.TransactionCancelled, amount)
	if !cancelled.IsZero() {
		t.Fatalf("cancelled effect = %s, want 0", cancelled)
	}
}

// Income must not consume budget, so a post-then-reverse of any income
// leaves SpentAmount exactly where it was.
func TestSpendEffectCountsOnlyExpenses(t *testing.T) {
	amount := decimal.RequireFromString("75.25")

	if got := spendEffect(models.TransactionExpense, models.TransactionCompleted, amount); !got.Equal(amount) {
		t.Fatalf("completed expense spend = %s, want %s", got, amount)
	}
	if got := spendEffect(models.TransactionExpense, models.TransactionPending, amount); !got.Equal(amount) {
		t.Fatalf("pending expense spend = %s, want %s", got, amount)
	}
	if got := spendEffect(models.TransactionExpense, models.TransactionCancelled, amount); !got.IsZero() {
		t.Fatalf("cancelled expense spend = %s, want 0", got)
	}
	if got := spendEffect(models.TransactionIncome, models.TransactionCompleted, amount); !got.IsZero() {
		t.Fatalf("income spend = %s, want 0", got)
	}

	spent := decimal.RequireFromString("40.00")
	afterIncome := spent.Add(spendEffect(models.TransactionIncome, models.TransactionCompleted, amount))
	afterReversal := afterIncome.Sub(spendEffect(models.TransactionIncome, models.TransactionCompleted, amount))
	if !afterReversal.Equal(spent) {
		t.Fatalf("spend after income round-trip = %s, want %s", afterReversal, spent)
	}
}

// Reversing the old effect and applying the new one must land on the same
// balance as never having posted the old transaction at all.
func TestReverseAndReapplyConservation(t *testing.T) {
	start := decimal.RequireFromString("1000.00")

	oldEffect := Effect(models.TransactionExpense, models.TransactionCompleted, decimal.RequireFromString("250.00"))
	newEffect := Effect(models.TransactionExpense, models.TransactionCompleted, decimal.RequireFromString("100.00"))

	afterPost := start.Add(oldEffect)
	afterEdit := afterPost.Sub(oldEffect).Add(newEffect)

	want := start.Add(newEffect)
	if !afterEdit.Equal(want) {
		t.Fatalf("after edit = %s, want %s", afterEdit, want)
	}

	// Flipping type from expense to income swings by twice the amount.
	flipped := afterPost.Sub(oldEffect).
		Add(Effect(models.TransactionIncome, models.TransactionCompleted, decimal.RequireFromString("250.00")))
	if !flipped.Equal(decimal.RequireFromString("1250.00")) {
		t.Fatalf("flipped balance = %s, want 1250.00", flipped)
	}

	// Cancelling removes the effect entirely.
	cancelled := afterPost.Sub(oldEffect).
		Add(Effect(models.TransactionExpense, models.TransactionCancelled, decimal.RequireFromString("250.00")))
	if !cancelled.Equal(start) {
		t.Fatalf("cancelled balance = %s, want %s", cancelled, start)
	}
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"1234.5", "1234.50"},
		{"0.125", "0.13"},
		{"-42", "-42.00"},
	}
	for _, tc := range tests {
		got := FormatAmount(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("FormatAmount(%s) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

// Every account type gets a zero-valued entry even before the user opens an
// account of that type.
func TestAccountTypesCoverSummary(t *testing.T) {
	want := []models.AccountType{
		models.AccountBank,
		models.AccountMobileMoney,
		models.AccountCash,
		models.AccountCrypto,
		models.AccountOther,
	}
	if len(models.AccountTypes) != len(want) {
		t.Fatalf("expected %d account types, got %d", len(want), len(models.AccountTypes))
	}
	for i, at := range want {
		if models.AccountTypes[i] != at {
			t.Fatalf("AccountTypes[%d] = %s, want %s", i, models.AccountTypes[i], at)
		}
	}
}
