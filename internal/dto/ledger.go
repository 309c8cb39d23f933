package dto

import (
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/utils"
)

// LedgerEntryResponse defines the data returned for one ledger entry.
type LedgerEntryResponse struct {
	EntryID             string                 `json:"entryID"`
	EntryType           domain.LedgerEntryType `json:"entryType"`
	Amount              int64                  `json:"amount"`
	AmountDisplay       string                 `json:"amountDisplay"`
	BalanceAfter        int64                  `json:"balanceAfter"`
	BalanceAfterDisplay string                 `json:"balanceAfterDisplay"`
	Reference           string                 `json:"reference,omitempty"`
	CreatedAt           time.Time              `json:"createdAt"`
}

// ListLedgerParams defines query parameters for the ledger history.
type ListLedgerParams struct {
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListLedgerEntriesResponse is a page of ledger entries.
type ListLedgerEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToLedgerEntryResponses converts ledger entries to response DTOs
func ToLedgerEntryResponses(entries []domain.LedgerEntry, exponent int32) []LedgerEntryResponse {
	res := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = LedgerEntryResponse{
			EntryID:             e.EntryID,
			EntryType:           e.EntryType,
			Amount:              e.Amount,
			AmountDisplay:       utils.FormatMinorUnits(e.Amount, exponent),
			BalanceAfter:        e.BalanceAfter,
			BalanceAfterDisplay: utils.FormatMinorUnits(e.BalanceAfter, exponent),
			Reference:           e.Reference,
			CreatedAt:           e.CreatedAt,
		}
	}
	return res
}
