package models

import (
	"database/sql"
	"time"
)

// AdSession is a row of the ad_sessions table.
type AdSession struct {
	TokenHash  string       `db:"token_hash"`
	AccountID  string       `db:"account_id"`
	CreatedAt  time.Time    `db:"created_at"`
	ExpiresAt  time.Time    `db:"expires_at"`
	ConsumedAt sql.NullTime `db:"consumed_at"`
}
