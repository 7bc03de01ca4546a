package billing

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"motorline/internal/domain"
	"motorline/internal/repo"
)

// Ledger is an append-only transaction store. Entries are immutable once
// appended and kept in insertion order.
type Ledger interface {
	Append(ctx context.Context, txn domain.Transaction) error
	// ListRecent returns the most recent n entries in insertion order;
	// n <= 0 returns all of them.
	ListRecent(ctx context.Context, n int) ([]domain.Transaction, error)
}

// NewTransaction builds a successful payment record for a charge.
func NewTransaction(amount float64, cardNumber string, now time.Time) domain.Transaction {
	return domain.Transaction{
		ID:        uuid.NewString(),
		Amount:    amount,
		CardLast4: cardNumber[len(cardNumber)-4:],
		Status:    "success",
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}

// MemoryLedger keeps transactions in process memory. Appends are serialized
// behind a single mutex to preserve insertion order.
type MemoryLedger struct {
	mu   sync.Mutex
	txns []domain.Transaction
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

func (l *MemoryLedger) Append(_ context.Context, txn domain.Transaction) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.txns = append(l.txns, txn)
	return nil
}

func (l *MemoryLedger) ListRecent(_ context.Context, n int) ([]domain.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := 0
	if n > 0 && n < len(l.txns) {
		start = len(l.txns) - n
	}
	out := make([]domain.Transaction, len(l.txns)-start)
	copy(out, l.txns[start:])
	return out, nil
}

// SQLiteLedger is the durable Ledger backed by the transactions table.
type SQLiteLedger struct {
	Repo repo.Repo
}

func (l SQLiteLedger) Append(ctx context.Context, txn domain.Transaction) error {
	return l.Repo.InsertTransaction(ctx, txn)
}

func (l SQLiteLedger) ListRecent(ctx context.Context, n int) ([]domain.Transaction, error) {
	return l.Repo.ListTransactions(ctx, n)
}
