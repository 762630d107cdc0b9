package accounting

import (
	"testing"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSignedBalance(t *testing.T) {
	debit := decimal.NewFromInt(300)
	credit := decimal.NewFromInt(100)

	for _, at := range []domain.AccountType{domain.Asset, domain.Expense} {
		got, err := SignedBalance(at, debit, credit)
		assert.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(200)), "%s", at)
	}
	for _, at := range []domain.AccountType{domain.Liability, domain.Equity, domain.Revenue} {
		got, err := SignedBalance(at, debit, credit)
		assert.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(-200)), "%s", at)
	}

	_, err := SignedBalance("INCOME", debit, credit)
	assert.Error(t, err)
}

func TestTrialBalanceSides(t *testing.T) {
	dr, cr := TrialBalanceSides(decimal.NewFromInt(50), decimal.NewFromInt(80))
	assert.True(t, dr.IsZero())
	assert.True(t, cr.Equal(decimal.NewFromInt(30)))

	dr, cr = TrialBalanceSides(decimal.NewFromInt(80), decimal.NewFromInt(50))
	assert.True(t, dr.Equal(decimal.NewFromInt(30)))
	assert.True(t, cr.IsZero())
}

func TestCashEffect(t *testing.T) {
	revenueLeg := domain.CreditLine("revenue", decimal.NewFromInt(1000), "")
	assert.True(t, CashEffect(revenueLeg).Equal(decimal.NewFromInt(1000)))

	payableLeg := domain.DebitLine("ap", decimal.NewFromInt(500), "")
	assert.True(t, CashEffect(payableLeg).Equal(decimal.NewFromInt(-500)))
}
