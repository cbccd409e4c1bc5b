package renga

import (
	"fmt"
	"sync"

	"github.com/hupe1980/renga/logging"
	"github.com/hupe1980/renga/native"
)

// TransactionState is the lifecycle position of a Transaction.
type TransactionState int

const (
	// TransactionStarted is the state of a transaction accepting edits.
	TransactionStarted TransactionState = iota
	// TransactionCommitted is the state after Commit.
	TransactionCommitted
	// TransactionRolledBack is the state after Rollback.
	TransactionRolledBack
)

func (s TransactionState) String() string {
	switch s {
	case TransactionStarted:
		return "started"
	case TransactionCommitted:
		return "committed"
	case TransactionRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("TransactionState(%d)", int(s))
	}
}

// Transaction groups project edits into one undoable operation.
type Transaction struct {
	handle *native.Dispatch
	logger logging.Logger

	mu    sync.Mutex
	state TransactionState
}

// newTransaction takes over handle and starts the operation.
func newTransaction(handle *native.Dispatch, logger logging.Logger) (*Transaction, error) {
	if handle.IsNull() {
		return nil, fmt.Errorf("%w: operation handle is null", ErrInternal)
	}

	if _, err := handle.Call("Start"); err != nil {
		handle.Release()
		return nil, err
	}

	logging.Transition(logger, "no_transaction", "transaction_active")

	return &Transaction{handle: handle, logger: logger}, nil
}

// State returns the current state.
func (t *Transaction) State() TransactionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Commit applies the edits made in the transaction.
func (t *Transaction) Commit() error { return t.finish("Apply", TransactionCommitted) }

// Rollback discards the edits made in the transaction.
func (t *Transaction) Rollback() error { return t.finish("Rollback", TransactionRolledBack) }

func (t *Transaction) finish(member string, to TransactionState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != TransactionStarted {
		return fmt.Errorf("%w: transaction already %s", ErrNoActiveTransaction, t.state)
	}

	if _, err := t.handle.Call(member); err != nil {
		return err
	}

	t.state = to
	logging.Transition(t.logger, "transaction_active", "no_transaction")

	return nil
}

// Release drops the operation reference. It does not finish the
// transaction.
func (t *Transaction) Release() { t.handle.Release() }
