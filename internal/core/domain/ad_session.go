package domain

import "time"

// AdSession is a one-time capability issued before an ad is shown.
// Only the hash of the token is stored.
type AdSession struct {
	TokenHash  string
	AccountID  string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	ConsumedAt *time.Time
}
