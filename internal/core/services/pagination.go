package services

import (
	"fmt"
	"time"

	"github.com/SscSPs/reward_ledger/internal/apperrors"
	portsrepo "github.com/SscSPs/reward_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/reward_ledger/internal/utils/pagination"
)

const defaultPageSize = 20

func pageSize(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	return limit
}

// decodeCursor turns an opaque nextToken into a keyset cursor. An empty token starts at the first page.
func decodeCursor(token string) (*portsrepo.PageCursor, error) {
	if token == "" {
		return nil, nil
	}
	createdAt, id, err := pagination.DecodeToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return &portsrepo.PageCursor{CreatedAt: createdAt, ID: id}, nil
}

// trimPage expects up to limit+1 rows. When the extra row is present it is dropped
// and a token pointing at the last kept row is returned.
func trimPage[T any](rows []T, limit int, key func(T) (time.Time, string)) ([]T, *string) {
	if len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	createdAt, id := key(rows[len(rows)-1])
	token := pagination.EncodeToken(createdAt, id)
	return rows, &token
}
