package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal is true for ASSET and EXPENSE accounts.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// AccountSubtype groups accounts inside report sections.
type AccountSubtype string

const (
	CashAndEquivalents AccountSubtype = "CASH_AND_EQUIVALENTS"
	CurrentAsset       AccountSubtype = "CURRENT_ASSET"
	FixedAsset         AccountSubtype = "FIXED_ASSET"
	CurrentLiability   AccountSubtype = "CURRENT_LIABILITY"
	LongTermLiability  AccountSubtype = "LONG_TERM_LIABILITY"
	OwnerEquity        AccountSubtype = "OWNER_EQUITY"
	RetainedEarnings   AccountSubtype = "RETAINED_EARNINGS"
	OperatingRevenue   AccountSubtype = "OPERATING_REVENUE"
	OtherRevenue       AccountSubtype = "OTHER_REVENUE"
	CostOfGoodsSold    AccountSubtype = "COST_OF_GOODS_SOLD"
	OperatingExpense   AccountSubtype = "OPERATING_EXPENSE"
	OtherExpense       AccountSubtype = "OTHER_EXPENSE"
)

// CashFlowActivity is the cash flow statement bucket a subtype falls into.
type CashFlowActivity string

const (
	ActivityCash      CashFlowActivity = "CASH"
	ActivityOperating CashFlowActivity = "OPERATING"
	ActivityInvesting CashFlowActivity = "INVESTING"
	ActivityFinancing CashFlowActivity = "FINANCING"
)

type subtypeInfo struct {
	accountType AccountType
	activity    CashFlowActivity
	order       int
}

var subtypes = map[AccountSubtype]subtypeInfo{
	CashAndEquivalents: {Asset, ActivityCash, 1},
	CurrentAsset:       {Asset, ActivityOperating, 2},
	FixedAsset:         {Asset, ActivityInvesting, 3},
	CurrentLiability:   {Liability, ActivityOperating, 4},
	LongTermLiability:  {Liability, ActivityFinancing, 5},
	OwnerEquity:        {Equity, ActivityFinancing, 6},
	RetainedEarnings:   {Equity, ActivityFinancing, 7},
	OperatingRevenue:   {Revenue, ActivityOperating, 8},
	OtherRevenue:       {Revenue, ActivityOperating, 9},
	CostOfGoodsSold:    {Expense, ActivityOperating, 10},
	OperatingExpense:   {Expense, ActivityOperating, 11},
	OtherExpense:       {Expense, ActivityOperating, 12},
}

// AccountType returns the account type a subtype belongs to, or "" if unknown.
func (s AccountSubtype) AccountType() AccountType {
	return subtypes[s].accountType
}

// Activity returns the cash flow activity for the subtype.
func (s AccountSubtype) Activity() CashFlowActivity {
	if info, ok := subtypes[s]; ok {
		return info.activity
	}
	return ActivityOperating
}

// SortOrder gives subtypes a stable presentation order in reports.
func (s AccountSubtype) SortOrder() int {
	if info, ok := subtypes[s]; ok {
		return info.order
	}
	return len(subtypes) + 1
}

// BelongsTo reports whether the subtype is valid for the account type.
func (s AccountSubtype) BelongsTo(t AccountType) bool {
	info, ok := subtypes[s]
	return ok && info.accountType == t
}

// DefaultSubtype is used when an account is created without an explicit subtype.
func DefaultSubtype(t AccountType) AccountSubtype {
	switch t {
	case Asset:
		return CurrentAsset
	case Liability:
		return CurrentLiability
	case Equity:
		return OwnerEquity
	case Revenue:
		return OperatingRevenue
	case Expense:
		return OperatingExpense
	}
	return ""
}

// Account is a chart-of-accounts entry. Type, subtype and code are fixed once
// the account is referenced by a posted line.
type Account struct {
	AccountID   string         `json:"accountID"`
	Code        string         `json:"code"`
	Name        string         `json:"name"`
	AccountType AccountType    `json:"accountType"`
	Subtype     AccountSubtype `json:"subtype"`
	Description string         `json:"description"`
	IsActive    bool           `json:"isActive"`
	AuditFields
}

// IsCashEquivalent reports whether the account counts toward cash in the cash flow statement.
func (a Account) IsCashEquivalent() bool {
	return a.Subtype == CashAndEquivalents
}
