package repositories

import (
	"context"
)

// TxFunc is the body of a unit of work. It receives a store bound to the transaction.
type TxFunc func(ctx context.Context, store LedgerStore) error

// UnitOfWork demarcates the transaction boundary. The store itself exposes none.
type UnitOfWork interface {
	// RunInTx runs fn in one transaction holding the ledger's exclusive write lock.
	// Any error returned by fn rolls back every statement it issued.
	RunInTx(ctx context.Context, fn TxFunc) error
}
