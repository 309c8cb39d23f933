package models

// Admin is a row of the admins table.
type Admin struct {
	AdminID      string `db:"admin_id"`
	Email        string `db:"email"`
	Name         string `db:"name"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	AuditFields
}
