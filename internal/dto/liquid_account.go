package dto

import (
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLiquidAccountRequest registers a cash drawer, bank account or UPI wallet.
// A positive opening balance is posted against OpeningBalanceAccountID.
type CreateLiquidAccountRequest struct {
	Name                    string                   `json:"name" binding:"required,max=255"`
	Type                    domain.LiquidAccountType `json:"type" binding:"required,oneof=CASH BANK UPI"`
	LedgerAccountID         string                   `json:"ledgerAccountID" binding:"required"`
	AllowOverdraft          bool                     `json:"allowOverdraft"`
	IsDefault               bool                     `json:"isDefault"`
	OpeningBalance          decimal.Decimal          `json:"openingBalance"`
	OpeningBalanceAccountID string                   `json:"openingBalanceAccountID,omitempty"`
	OpeningDate             *time.Time               `json:"openingDate,omitempty"`
}

type ListLiquidTransactionsParams struct {
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

type LiquidAccountResponse struct {
	LiquidAccountID string          `json:"liquidAccountID"`
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	LedgerAccountID string          `json:"ledgerAccountID"`
	CurrentBalance  decimal.Decimal `json:"currentBalance"`
	AllowOverdraft  bool            `json:"allowOverdraft"`
	IsDefault       bool            `json:"isDefault"`
	IsActive        bool            `json:"isActive"`
	Version         int64           `json:"version"`
	LastUpdatedAt   time.Time       `json:"lastUpdatedAt"`
}

type LiquidTransactionResponse struct {
	TransactionID  string          `json:"transactionID"`
	Amount         decimal.Decimal `json:"amount"`
	Direction      string          `json:"direction"`
	Description    string          `json:"description"`
	SourceType     string          `json:"sourceType"`
	SourceID       string          `json:"sourceID"`
	JournalEntryID string          `json:"journalEntryID"`
	BalanceAfter   decimal.Decimal `json:"balanceAfter"`
	ReversalOf     *string         `json:"reversalOf,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type ListLiquidTransactionsResponse struct {
	Transactions []LiquidTransactionResponse `json:"transactions"`
	NextToken    *string                     `json:"nextToken,omitempty"`
}

func ToLiquidAccountResponse(a *domain.LiquidAccount) LiquidAccountResponse {
	return LiquidAccountResponse{
		LiquidAccountID: a.LiquidAccountID,
		Name:            a.Name,
		Type:            string(a.Type),
		LedgerAccountID: a.LedgerAccountID,
		CurrentBalance:  a.CurrentBalance,
		AllowOverdraft:  a.AllowOverdraft,
		IsDefault:       a.IsDefault,
		IsActive:        a.IsActive,
		Version:         a.Version,
		LastUpdatedAt:   a.LastUpdatedAt,
	}
}

func ToLiquidAccountResponses(accounts []domain.LiquidAccount) []LiquidAccountResponse {
	out := make([]LiquidAccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToLiquidAccountResponse(&accounts[i])
	}
	return out
}

func ToLiquidTransactionResponse(t *domain.LiquidTransaction) LiquidTransactionResponse {
	return LiquidTransactionResponse{
		TransactionID:  t.TransactionID,
		Amount:         t.Amount,
		Direction:      string(t.Direction),
		Description:    t.Description,
		SourceType:     string(t.SourceType),
		SourceID:       t.SourceID,
		JournalEntryID: t.JournalEntryID,
		BalanceAfter:   t.BalanceAfter,
		ReversalOf:     t.ReversalOf,
		CreatedAt:      t.CreatedAt,
	}
}

func ToLiquidTransactionResponses(txns []domain.LiquidTransaction) []LiquidTransactionResponse {
	out := make([]LiquidTransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToLiquidTransactionResponse(&txns[i])
	}
	return out
}
