package accounting

import (
	"fmt"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedBalance turns raw debit/credit totals into a balance on the account's normal side.
// DEBIT-normal (ASSET/EXPENSE): debit - credit.
// CREDIT-normal (LIABILITY/EQUITY/REVENUE): credit - debit.
func SignedBalance(accountType domain.AccountType, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return debit.Sub(credit), nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}

// CalculateSignedAmount applies the normal-balance sign to a single journal line.
func CalculateSignedAmount(line domain.JournalEntryLine, accountType domain.AccountType) (decimal.Decimal, error) {
	return SignedBalance(accountType, line.DebitAmount, line.CreditAmount)
}

// TrialBalanceSides places a net balance on the debit or credit column.
func TrialBalanceSides(debit, credit decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	net := debit.Sub(credit)
	if net.IsNegative() {
		return decimal.Zero, net.Neg()
	}
	return net, decimal.Zero
}

// CashEffect is the change in cash a line implies when it is the counterpart
// of a cash leg: crediting a non-cash account brings cash in.
func CashEffect(line domain.JournalEntryLine) decimal.Decimal {
	return line.CreditAmount.Sub(line.DebitAmount)
}
