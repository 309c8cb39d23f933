package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
// The completed task set lives in its own table and is not part of the row.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:             d.AccountID,
		Name:                  d.Name,
		Mobile:                d.Mobile,
		TelegramUsername:      d.TelegramUsername,
		Balance:               d.Balance,
		TotalEarned:           d.TotalEarned,
		AdTasksCompleted:      d.AdTasksCompleted,
		DynamicTasksCompleted: d.DynamicTasksCompleted,
		LastClaimAt:           toNullTime(d.LastClaimAt),
		IsSuspended:           d.IsSuspended,
		JoinedAt:              d.JoinedAt,
		AuditFields:           ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account, completed domain.TaskIDSet) domain.Account {
	if completed == nil {
		completed = domain.TaskIDSet{}
	}
	return domain.Account{
		AccountID:             m.AccountID,
		Name:                  m.Name,
		Mobile:                m.Mobile,
		TelegramUsername:      m.TelegramUsername,
		Balance:               m.Balance,
		TotalEarned:           m.TotalEarned,
		AdTasksCompleted:      m.AdTasksCompleted,
		DynamicTasksCompleted: m.DynamicTasksCompleted,
		CompletedTasks:        completed,
		LastClaimAt:           fromNullTime(m.LastClaimAt),
		IsSuspended:           m.IsSuspended,
		JoinedAt:              m.JoinedAt,
		AuditFields:           ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
// without loading their completed task sets.
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m, nil)
	}
	return ds
}
