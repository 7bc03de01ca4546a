package migrate

import (
	"testing"

	"motorline/internal/db"
)

func TestMigrateFreshDatabase(t *testing.T) {
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if v, err := Version(conn); err != nil || v != 0 {
		t.Fatalf("fresh db version = %d, %v, want 0", v, err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if v, err := Version(conn); err != nil || v != 1 {
		t.Fatalf("version after migrate = %d, %v, want 1", v, err)
	}

	// Migrated tables accept writes.
	if _, err := conn.Exec(`INSERT INTO trades(year,mileage,value,created_at) VALUES (2020,1000,9.5,'2025-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert into trades: %v", err)
	}
	if _, err := conn.Exec(`INSERT INTO transactions(id,amount,card_last4,status,ts) VALUES ('t1',1,'1234','success','2025-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("insert into transactions: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	conn, err := db.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	if err := Migrate(conn); err != nil {
		t.Fatalf("first migrate: %v", err)
	}
	if err := Migrate(conn); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if v, _ := Version(conn); v != 1 {
		t.Fatalf("version after re-run = %d, want 1", v)
	}
}

func TestVersionOf(t *testing.T) {
	if v, err := versionOf("0001_init.sql"); err != nil || v != 1 {
		t.Fatalf("versionOf(0001_init.sql) = %d, %v", v, err)
	}
	if _, err := versionOf("init.sql"); err == nil {
		t.Fatal("expected error for filename without version prefix")
	}
	if _, err := versionOf("abc_init.sql"); err == nil {
		t.Fatal("expected error for non-numeric version prefix")
	}
}
