package storage

import (
	"encoding/json"
	"os"
	"time"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
	"github.com/ibrahimkeyboad/goledger/internal/core/ledger"
)

// The engine lives entirely in memory for the lifetime of the process;
// snapshots are the one escape hatch, written at shutdown and loaded at
// boot so a restart doesn't wipe the ledger.

// Meta describes a snapshot file, for debugging and future schema upgrades.
type Meta struct {
	Storage string    `json:"storage"`
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
}

// Snapshot is the full serialized ledger state.
type Snapshot struct {
	Meta       Meta              `json:"_meta"`
	PaymentSeq int64             `json:"payment_seq"`
	Accounts   []*domain.Account `json:"accounts"`
}

// Capture exports the engine's state into a serializable snapshot.
func Capture(e *ledger.Engine) Snapshot {
	return Snapshot{
		Meta:       Meta{Storage: "json_snapshot", Version: 1, SavedAt: time.Now()},
		PaymentSeq: e.PaymentSeq(),
		Accounts:   e.Accounts(),
	}
}

// Apply loads the snapshot back into an engine, rebuilding its indexes.
func (s Snapshot) Apply(e *ledger.Engine) {
	e.Restore(s.Accounts, s.PaymentSeq)
}

// LoadSnapshot reads and decodes a snapshot file.
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()
	err = json.NewDecoder(f).Decode(&snap)
	return snap, err
}

// SaveSnapshot writes the snapshot atomically: encode to a .tmp file first,
// then rename over the real one, so a crash mid-write cannot corrupt the
// previous snapshot.
func SaveSnapshot(path string, snap Snapshot) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}
