package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// CreatedBy and LastUpdatedBy hold an account ID, an admin ID or "system".
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// SystemActor is recorded in audit fields for changes not made by a person.
const SystemActor = "system"
