package domain

import "time"

// LedgerEntryType classifies a balance movement.
type LedgerEntryType string

const (
	EntryAdWatch          LedgerEntryType = "AD_WATCH"
	EntryTaskComplete     LedgerEntryType = "TASK_COMPLETE"
	EntryDailyBonus       LedgerEntryType = "DAILY_BONUS"
	EntryWithdrawalEscrow LedgerEntryType = "WITHDRAWAL_ESCROW"
	EntryWithdrawalRefund LedgerEntryType = "WITHDRAWAL_REFUND"
)

// EntryTypeForEarning maps an earning kind to its ledger entry type.
func EntryTypeForEarning(kind EarningKind) LedgerEntryType {
	switch kind {
	case EarningAdWatch:
		return EntryAdWatch
	case EarningTaskComplete:
		return EntryTaskComplete
	default:
		return EntryDailyBonus
	}
}

// LedgerEntry is an append-only record of one signed balance movement.
type LedgerEntry struct {
	EntryID      string          `json:"entryID"`
	AccountID    string          `json:"accountID"`
	EntryType    LedgerEntryType `json:"entryType"`
	Amount       int64           `json:"amount"` // signed
	BalanceAfter int64           `json:"balanceAfter"`
	Reference    string          `json:"reference,omitempty"` // task ID or withdrawal ID
	CreatedAt    time.Time       `json:"createdAt"`
}
