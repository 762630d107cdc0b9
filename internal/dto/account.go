package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to add an account to the chart.
type CreateAccountRequest struct {
	Code        string                `json:"code" binding:"required,max=20"`
	Name        string                `json:"name" binding:"required,max=255"`
	AccountType domain.AccountType    `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Subtype     domain.AccountSubtype `json:"subtype,omitempty"`
	Description string                `json:"description,omitempty"`
}

// UpdateAccountRequest defines the editable fields of an account. Subtype
// can only change while no posted line references the account.
type UpdateAccountRequest struct {
	Name        *string                `json:"name,omitempty" binding:"omitempty,max=255"`
	Description *string                `json:"description,omitempty"`
	Subtype     *domain.AccountSubtype `json:"subtype,omitempty"`
	IsActive    *bool                  `json:"isActive,omitempty"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	AccountType string `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Limit       int    `form:"limit" binding:"omitempty,min=1,max=500"`
	Offset      int    `form:"offset" binding:"omitempty,min=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID   string    `json:"accountID"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	AccountType string    `json:"accountType"`
	Subtype     string    `json:"subtype"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

// AccountBalanceResponse is an account's balance on its normal side as of a date.
type AccountBalanceResponse struct {
	AccountID   string          `json:"accountID"`
	AccountType string          `json:"accountType"`
	AsOf        string          `json:"asOf"`
	Balance     decimal.Decimal `json:"balance"`
}

// SectionTotalsParams selects one account type section as of a date.
type SectionTotalsParams struct {
	AccountType string    `form:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	AsOf        time.Time `form:"asOf" time_format:"2006-01-02" time_utc:"1"`
}

func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Code:        a.Code,
		Name:        a.Name,
		AccountType: string(a.AccountType),
		Subtype:     string(a.Subtype),
		Description: a.Description,
		IsActive:    a.IsActive,
		CreatedAt:   a.CreatedAt,
		CreatedBy:   a.CreatedBy,
	}
}

func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
