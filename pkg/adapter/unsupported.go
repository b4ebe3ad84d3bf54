package adapter

import (
	"context"

	"github.com/gridbase/gridbase/pkg/dbcapabilities"
)

// UnsupportedTransactionOperator is a nil object pattern for backends without
// atomic write batches. Begin reports ErrOperationNotSupported; callers
// degrade to sequential application.
type UnsupportedTransactionOperator struct {
	dbType dbcapabilities.DatabaseID
	reason string
}

func (u *UnsupportedTransactionOperator) Begin(ctx context.Context) (Transaction, error) {
	return nil, NewUnsupportedOperationError(u.dbType, "transactions", u.reason)
}

// NewUnsupportedTransactionOperator creates a new unsupported transaction operator.
func NewUnsupportedTransactionOperator(dbType dbcapabilities.DatabaseID, reason string) TransactionOperator {
	return &UnsupportedTransactionOperator{dbType: dbType, reason: reason}
}
