package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSummaryParams selects a page of ledger rows for one entity type.
type LedgerSummaryParams struct {
	LiquidAccountID string     `form:"liquidAccountID"`
	AccountID       string     `form:"accountID"`
	From            *time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To              *time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
	Limit           int        `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken       string     `form:"nextToken"`
}

// LedgerRowResponse is one row of a ledger summary. Debit and Credit are
// from the point of view of the ledger being summarised.
type LedgerRowResponse struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	Reference   string           `json:"reference,omitempty"`
	Description string           `json:"description"`
	Debit       decimal.Decimal  `json:"debit"`
	Credit      decimal.Decimal  `json:"credit"`
	Balance     *decimal.Decimal `json:"balance,omitempty"`
	SourceType  string           `json:"sourceType,omitempty"`
	SourceID    string           `json:"sourceID,omitempty"`
}

type LedgerSummaryResponse struct {
	EntityType  string              `json:"entityType"`
	Rows        []LedgerRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal     `json:"totalDebit"`
	TotalCredit decimal.Decimal     `json:"totalCredit"`
	NextToken   *string             `json:"nextToken,omitempty"`
}
