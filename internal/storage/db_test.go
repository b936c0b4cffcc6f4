package storage

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"fundlist/internal"
	"fundlist/internal/util"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "fundlist.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUpsertAndListFunds(t *testing.T) {
	db := openTestDB(t)

	funds := []internal.FundRecord{
		{Code: "000002", Name: "基金二"},
		{Code: "000001", Name: "基金一", Type: util.StringPtr("混合型")},
	}
	if err := db.UpsertFunds(funds); err != nil {
		t.Fatal(err)
	}

	// Second sync updates in place instead of duplicating.
	funds[0].Name = "基金二改名"
	if err := db.UpsertFunds(funds); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListFunds(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len=%d", len(got))
	}
	if got[0].Code != "000001" || got[1].Name != "基金二改名" {
		t.Fatalf("got=%+v", got)
	}

	limited, err := db.ListFunds(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited len=%d", len(limited))
	}
}

func TestRecordNav(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertFunds([]internal.FundRecord{{Code: "000001", Name: "基金一"}}); err != nil {
		t.Fatal(err)
	}
	nav := decimal.RequireFromString("1.2345")
	if err := db.RecordNav("000001", "2024-01-04", nav); err != nil {
		t.Fatal(err)
	}
	// Same date again overwrites the history row, not a second insert.
	if err := db.RecordNav("000001", "2024-01-04", decimal.RequireFromString("1.2400")); err != nil {
		t.Fatal(err)
	}

	got, err := db.ListFunds(0)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].NavDate == nil || *got[0].NavDate != "2024-01-04" {
		t.Fatalf("navDate=%v", got[0].NavDate)
	}
	if got[0].Nav == nil || !got[0].Nav.Equal(decimal.RequireFromString("1.24")) {
		t.Fatalf("nav=%v", got[0].Nav)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("catalog.last_sync")
	if err != nil {
		t.Fatal(err)
	}
	if missing != nil {
		t.Fatalf("expected nil, got %v", *missing)
	}

	if err := db.SetMetadata("catalog.last_sync", "2024-01-04T00:00:00Z"); err != nil {
		t.Fatal(err)
	}
	if err := db.SetMetadata("catalog.last_sync", "2024-01-05T00:00:00Z"); err != nil {
		t.Fatal(err)
	}

	value, err := db.GetMetadata("catalog.last_sync")
	if err != nil {
		t.Fatal(err)
	}
	if value == nil || *value != "2024-01-05T00:00:00Z" {
		t.Fatalf("value=%v", value)
	}
}

func TestInsertRun(t *testing.T) {
	db := openTestDB(t)
	if err := db.InsertRun("trace-1", "catalog:sync", map[string]int{"funds": 3}); err != nil {
		t.Fatal(err)
	}
}
