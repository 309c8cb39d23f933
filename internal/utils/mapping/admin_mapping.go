package mapping

import (
	"github.com/SscSPs/reward_ledger/internal/core/domain"
	"github.com/SscSPs/reward_ledger/internal/models"
)

// ToModelAdmin converts a domain Admin to a model Admin
func ToModelAdmin(d domain.Admin) models.Admin {
	return models.Admin{
		AdminID:      d.AdminID,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		Role:         string(d.Role),
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAdmin converts a model Admin to a domain Admin
func ToDomainAdmin(m models.Admin) domain.Admin {
	return domain.Admin{
		AdminID:      m.AdminID,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Role:         domain.Role(m.Role),
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAdSession converts a domain AdSession to a model AdSession
func ToModelAdSession(d domain.AdSession) models.AdSession {
	return models.AdSession{
		TokenHash:  d.TokenHash,
		AccountID:  d.AccountID,
		CreatedAt:  d.CreatedAt,
		ExpiresAt:  d.ExpiresAt,
		ConsumedAt: toNullTime(d.ConsumedAt),
	}
}
