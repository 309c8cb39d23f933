package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:      d.EntryID,
		AccountID:    d.AccountID,
		EntryType:    string(d.EntryType),
		Amount:       d.Amount,
		BalanceAfter: d.BalanceAfter,
		Reference:    toNullString(d.Reference),
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:      m.EntryID,
		AccountID:    m.AccountID,
		EntryType:    domain.LedgerEntryType(m.EntryType),
		Amount:       m.Amount,
		BalanceAfter: m.BalanceAfter,
		Reference:    m.Reference.String,
		CreatedAt:    m.CreatedAt,
	}
}
