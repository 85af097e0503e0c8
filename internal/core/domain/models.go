package domain

import (
	"time"

	"github.com/google/uuid"
)

// TxKind tags a transaction with the operation that produced it.
// The sign of the balance effect is implied by the kind, the Amount
// field is always the magnitude.
type TxKind string

const (
	TxDeposit     TxKind = "deposit"
	TxTransferOut TxKind = "transfer_out"
	TxTransferIn  TxKind = "transfer_in"
	TxPayment     TxKind = "payment"
	TxCashback    TxKind = "cashback"
)

// PaymentStatus is what we report back for a card payment.
type PaymentStatus string

const (
	PaymentInProgress       PaymentStatus = "IN_PROGRESS"
	PaymentCashbackReceived PaymentStatus = "CASHBACK_RECEIVED"
)

// AccountState is a tagged state, not an optional field, so every
// "must be active" check is forced to consider the merged case.
type AccountState int

const (
	StateActive AccountState = iota
	StateMerged
)

// Transaction is one append-only fact on an account's log. Facts are never
// deleted or rewritten; the single exception is the Deposited flag on a
// cashback, which flips false -> true exactly once when the reward settles.
type Transaction struct {
	Timestamp int64  `json:"timestamp"`
	Kind      TxKind `json:"kind"`
	Amount    int64  `json:"amount"`

	// Counterparty is set on transfer_out/transfer_in only.
	Counterparty string `json:"counterparty,omitempty"`

	// PaymentID links a payment to its cashback ("payment1", "payment2", ...).
	PaymentID string `json:"payment_id,omitempty"`

	// Deposited is meaningful on cashback facts only.
	Deposited bool `json:"deposited,omitempty"`

	// Provenance: set only on facts copied in by an account merge.
	// Timestamp still holds the original event time, not the merge time.
	MergedFrom string `json:"merged_from,omitempty"`
	MergeTime  int64  `json:"merge_time,omitempty"`
}

// Absorbed reports whether this fact was copied in by a merge.
func (t *Transaction) Absorbed() bool { return t.MergedFrom != "" }

// Signed returns the balance effect of the fact: positive for money coming
// in (deposit, transfer_in, cashback), negative for money going out
// (transfer_out, payment).
func (t *Transaction) Signed() int64 {
	switch t.Kind {
	case TxDeposit, TxTransferIn, TxCashback:
		return t.Amount
	case TxTransferOut, TxPayment:
		return -t.Amount
	}
	return 0
}

// Account is one ledger account. Balance is the live running total in minor
// units; Transactions is the append-only log the live total must always
// agree with (once due cashbacks are settled).
type Account struct {
	ID        string       `json:"id"`
	Balance   int64        `json:"balance"`
	CreatedAt int64        `json:"created_at"`
	State     AccountState `json:"state"`

	// MergedAt is meaningful only when State == StateMerged. From that
	// moment on the account is frozen: it rejects every operation except
	// historical balance queries dated before the merge.
	MergedAt int64 `json:"merged_at,omitempty"`

	Transactions []*Transaction `json:"transactions"`
}

// Active reports whether the account still accepts operations.
func (a *Account) Active() bool { return a.State == StateActive }

// Event types published by the ledger engine.
const (
	EventPaymentCreated  = "payment.created"
	EventCashbackMatured = "cashback.matured"
	EventAccountsMerged  = "accounts.merged"
)

// Event is a notification emitted by the engine for the webhook worker.
// Timestamp is ledger time (ms); EmittedAt is wall-clock, for delivery logs.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"event"`
	AccountID string    `json:"account_id"`
	PaymentID string    `json:"payment_id,omitempty"`
	Amount    int64     `json:"amount"`
	Timestamp int64     `json:"timestamp"`
	EmittedAt time.Time `json:"emitted_at"`
}
