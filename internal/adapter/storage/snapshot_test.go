package storage

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

// Build a ledger with some history: a merge, a settled payment and one
// whose cashback is still pending at snapshot time.
func seedEngine(t *testing.T) *ledger.Engine {
	t.Helper()
	e := ledger.NewEngine()
	for _, id := range []string{"A", "B"} {
		if err := e.CreateAccount(1, id); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := e.Deposit(2, "A", 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Deposit(2, "B", 200); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Pay(3, "B", 100); err != nil { // payment1, pending at snapshot
		t.Fatal(err)
	}
	if err := e.MergeAccounts(10, "A", "B"); err != nil {
		t.Fatal(err)
	}
	return e
}

func TestSnapshotRoundTrip(t *testing.T) {
	e := seedEngine(t)
	path := filepath.Join(t.TempDir(), "ledger.json")

	if err := SaveSnapshot(path, Capture(e)); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	snap, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if snap.Meta.Storage != "json_snapshot" || snap.Meta.Version != 1 {
		t.Fatalf("meta=%+v", snap.Meta)
	}

	restored := ledger.NewEngine()
	snap.Apply(restored)

	// Live state survives the round trip.
	if got, err := restored.GetBalance(11, "A", 11); err != nil || got != 1100 {
		t.Fatalf("A balance=%d err=%v want=1100", got, err)
	}
	// Historical replay still works, merge boundary included.
	if _, err := restored.GetBalance(11, "B", 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("B at merge time: want ErrNotFound, got %v", err)
	}
	if got, err := restored.GetBalance(11, "B", 9); err != nil || got != 100 {
		t.Fatalf("B at asOf=9 balance=%d err=%v want=100", got, err)
	}

	// The payment index was rebuilt: status lookups follow the absorbing
	// account and the pending cashback still settles.
	status, err := restored.GetPaymentStatus(11, "A", "payment1")
	if err != nil {
		t.Fatal(err)
	}
	if status != domain.PaymentInProgress {
		t.Fatalf("status=%q want=%q", status, domain.PaymentInProgress)
	}
	due := int64(3) + domain.OneDay
	status, err = restored.GetPaymentStatus(due, "A", "payment1")
	if err != nil {
		t.Fatal(err)
	}
	if status != domain.PaymentCashbackReceived {
		t.Fatalf("status=%q want=%q", status, domain.PaymentCashbackReceived)
	}
	if got, err := restored.GetBalance(due, "A", due); err != nil || got != 1102 {
		t.Fatalf("A after cashback=%d err=%v want=1102", got, err)
	}

	// The payment counter was restored too: no id reuse.
	pid, err := restored.Pay(due+1, "A", 10)
	if err != nil {
		t.Fatal(err)
	}
	if pid != "payment2" {
		t.Fatalf("next payment id=%q want=payment2", pid)
	}
}

func TestLoadSnapshotMissingFile(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("want error for missing snapshot file")
	}
}

func TestKeyStore(t *testing.T) {
	ks := NewKeyStore()
	ks.Save("acct-1", "hash-1")

	if id, ok := ks.Lookup("hash-1"); !ok || id != "acct-1" {
		t.Fatalf("Lookup=(%q,%v) want=(acct-1,true)", id, ok)
	}
	if _, ok := ks.Lookup("hash-2"); ok {
		t.Fatal("unknown hash must not resolve")
	}
}
