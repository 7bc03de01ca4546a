package repo

import (
	"context"
	"fmt"
	"testing"

	"motorline/internal/db"
	"motorline/internal/domain"
	"motorline/internal/migrate"
)

func testRepo(t *testing.T) Repo {
	t.Helper()
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return Repo{DB: conn}
}

func TestTradeRoundTrip(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	id, err := r.InsertTrade(ctx, domain.Trade{Year: 2018, Mileage: 42000, Value: 17500.25, CreatedAt: "2025-01-02T03:04:05Z"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, err := r.GetTrade(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Year != 2018 || got.Mileage != 42000 || got.Value != 17500.25 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestGetTradeNotFound(t *testing.T) {
	r := testRepo(t)
	if _, err := r.GetTrade(context.Background(), 12345); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestListTradesNewestFirst(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		if _, err := r.InsertTrade(ctx, domain.Trade{Year: 2010 + i, Mileage: 1000, Value: 100, CreatedAt: "2025-01-01T00:00:00Z"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	trades, err := r.ListTrades(ctx, 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades", len(trades))
	}
	if trades[0].Year != 2013 || trades[2].Year != 2011 {
		t.Fatalf("unexpected order: %+v", trades)
	}
}

func TestTransactionsInsertionOrder(t *testing.T) {
	r := testRepo(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		txn := domain.Transaction{
			ID:        fmt.Sprintf("txn-%d", i),
			Amount:    float64(i),
			CardLast4: "1234",
			Status:    "success",
			Timestamp: "2025-01-01T00:00:00Z",
		}
		if err := r.InsertTransaction(ctx, txn); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	all, err := r.ListTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("got %d transactions", len(all))
	}
	for i, txn := range all {
		if txn.ID != fmt.Sprintf("txn-%d", i) {
			t.Fatalf("order lost at %d: %+v", i, txn)
		}
	}

	recent, err := r.ListTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "txn-3" || recent[1].ID != "txn-4" {
		t.Fatalf("unexpected recent window: %+v", recent)
	}
}
