package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// Audit columns have the same layout in both layers; only the struct tags differ.

func ToModelAuditFields(d domain.AuditFields) models.AuditFields { return models.AuditFields(d) }

func ToDomainAuditFields(m models.AuditFields) domain.AuditFields { return domain.AuditFields(m) }
