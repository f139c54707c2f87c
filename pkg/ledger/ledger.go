// Package ledger persists the two pieces of state this spec calls out
// as needing real durability (§9: "a real system would persist [the
// used-proof set]"): player balances and the set of payment proofs
// already consumed. No in-progress room or engine state is persisted
// here — the spec makes no durability claim across restarts for that,
// and this package doesn't pretend otherwise.
package ledger

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Ledger wraps a sqlite connection holding balances and used proofs,
// in the shape of the teacher's internal/db package narrowed to these
// two concerns.
type Ledger struct {
	db *sql.DB
}

// Open creates (or attaches to) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Ledger{db: db}, nil
}

func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS balances (
			account_id TEXT PRIMARY KEY,
			balance INTEGER NOT NULL DEFAULT 0
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS used_proofs (
			proof_ref TEXT PRIMARY KEY,
			used_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// GetBalance returns an account's balance, 0 if the account has never
// transacted.
func (l *Ledger) GetBalance(accountID string) (int64, error) {
	var balance int64
	err := l.db.QueryRow("SELECT balance FROM balances WHERE account_id = ?", accountID).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// AdjustBalance applies a signed delta to an account's balance,
// creating the account row if it doesn't exist yet.
func (l *Ledger) AdjustBalance(accountID string, delta int64) error {
	_, err := l.db.Exec(`
		INSERT INTO balances (account_id, balance)
		VALUES (?, ?)
		ON CONFLICT(account_id) DO UPDATE SET balance = balance + ?
	`, accountID, delta, delta)
	if err != nil {
		return fmt.Errorf("adjust balance: %w", err)
	}
	return nil
}

// MarkProofUsed records proofRef as consumed. It fails if the proof
// was already recorded, giving callers replay protection (P4) for
// free via the primary key constraint.
func (l *Ledger) MarkProofUsed(proofRef string) error {
	_, err := l.db.Exec(`INSERT INTO used_proofs (proof_ref) VALUES (?)`, proofRef)
	if err != nil {
		return fmt.Errorf("proof-replay: %w", err)
	}
	return nil
}

// IsProofUsed reports whether proofRef has already been recorded.
func (l *Ledger) IsProofUsed(proofRef string) (bool, error) {
	var exists int
	err := l.db.QueryRow("SELECT 1 FROM used_proofs WHERE proof_ref = ?", proofRef).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check proof: %w", err)
	}
	return true, nil
}
