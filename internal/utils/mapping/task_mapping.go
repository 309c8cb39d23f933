package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// ToModelTask converts a domain Task to a model Task
func ToModelTask(d domain.Task) models.Task {
	return models.Task{
		TaskID:      d.TaskID,
		Title:       d.Title,
		Description: d.Description,
		Reward:      d.Reward,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTask converts a model Task to a domain Task
func ToDomainTask(m models.Task) domain.Task {
	return domain.Task{
		TaskID:      m.TaskID,
		Title:       m.Title,
		Description: m.Description,
		Reward:      m.Reward,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTaskSlice converts a slice of model Tasks to a slice of domain Tasks
func ToDomainTaskSlice(ms []models.Task) []domain.Task {
	ds := make([]domain.Task, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTask(m)
	}
	return ds
}
