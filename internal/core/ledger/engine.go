// Package ledger implements the event-sourced ledger core: every
// balance-affecting fact is recorded on the owning account's log, the live
// balance is a running total the log must always agree with, and historical
// balances are reconstructed by replaying the log.
//
// Time is logical: callers supply int64 millisecond timestamps, non-decreasing
// across the call sequence. The engine never looks at the wall clock.
package ledger

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// paymentPrefix + a counter starting at 1 forms the payment id callers see.
// "payment1" is the first payment in the engine's lifetime; ids are never
// reused, even across merges.
const paymentPrefix = "payment"

// paymentRecord indexes one card payment for O(1) status lookups.
// owner follows the payment when its history is absorbed by a merge.
type paymentRecord struct {
	owner    string
	cashback *domain.Transaction
}

// pendingCashback points at a scheduled, not-yet-settled cashback fact and
// the account it will credit.
type pendingCashback struct {
	acct *domain.Account
	tx   *domain.Transaction
}

// Engine owns every account record and transaction log. One mutex serializes
// every public operation: the maturation sweep must run before any operation
// reads or writes a balance, and a single critical section is the only
// locking scheme that cannot reorder the two.
type Engine struct {
	mu         sync.Mutex
	accounts   map[string]*domain.Account
	payments   map[string]*paymentRecord
	pending    []pendingCashback
	paymentSeq int64

	// Events receives engine notifications when non-nil. Sends never
	// block: if the buffer is full the event is dropped. Set it before
	// the first operation, not after.
	Events chan domain.Event
}

// NewEngine returns an empty in-memory ledger.
func NewEngine() *Engine {
	return &Engine{
		accounts: make(map[string]*domain.Account),
		payments: make(map[string]*paymentRecord),
	}
}

func (e *Engine) emit(typ, accountID, paymentID string, amount, ts int64) {
	if e.Events == nil {
		return
	}
	ev := domain.Event{
		ID:        uuid.New(),
		Type:      typ,
		AccountID: accountID,
		PaymentID: paymentID,
		Amount:    amount,
		Timestamp: ts,
		EmittedAt: time.Now(),
	}
	select {
	case e.Events <- ev:
	default:
	}
}

// matureCashbacks settles every cashback due at ts. It runs at the start of
// every public operation, before any other logic touches a balance: a
// payment's reward may have come due between two calls, and the later call
// must observe it. Running it again at the same or a later ts is a no-op for
// already-settled entries.
func (e *Engine) matureCashbacks(ts int64) {
	kept := e.pending[:0]
	for _, p := range e.pending {
		if p.tx.Timestamp > ts {
			kept = append(kept, p)
			continue
		}
		if !p.tx.Deposited {
			p.acct.Balance += p.tx.Amount
			p.tx.Deposited = true
			e.emit(domain.EventCashbackMatured, p.acct.ID, p.tx.PaymentID, p.tx.Amount, ts)
		}
	}
	e.pending = kept
}

// active returns the account only if it exists and has not been merged away.
func (e *Engine) active(id string) (*domain.Account, bool) {
	a, ok := e.accounts[id]
	if !ok || !a.Active() {
		return nil, false
	}
	return a, true
}

// CreateAccount registers a fresh zero-balance account. An id that denotes
// an active account cannot be recreated; an id whose account was merged away
// may be reused, and the new account shares nothing with the old one.
func (e *Engine) CreateAccount(ts int64, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if a, ok := e.accounts[id]; ok && a.Active() {
		return fmt.Errorf("%w: %q", domain.ErrAccountExists, id)
	}
	e.accounts[id] = &domain.Account{ID: id, CreatedAt: ts}
	return nil
}

// Deposit credits amount and returns the new balance.
func (e *Engine) Deposit(ts int64, id string, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: deposit amount must be positive", domain.ErrInvalidArgument)
	}
	a, ok := e.active(id)
	if !ok {
		return 0, fmt.Errorf("%w: account %q", domain.ErrNotFound, id)
	}

	a.Balance += amount
	a.Transactions = append(a.Transactions, &domain.Transaction{
		Timestamp: ts,
		Kind:      domain.TxDeposit,
		Amount:    amount,
	})
	return a.Balance, nil
}

// Transfer debits src and credits dst atomically, appending the paired
// transfer facts, and returns the new source balance. Validation happens
// before any mutation, so a failed transfer changes nothing.
func (e *Engine) Transfer(ts int64, src, dst string, amount int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if amount <= 0 {
		return 0, fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidArgument)
	}
	if src == dst {
		return 0, fmt.Errorf("%w: source and target are the same account", domain.ErrInvalidArgument)
	}
	from, ok := e.active(src)
	if !ok {
		return 0, fmt.Errorf("%w: account %q", domain.ErrNotFound, src)
	}
	to, ok := e.active(dst)
	if !ok {
		return 0, fmt.Errorf("%w: account %q", domain.ErrNotFound, dst)
	}
	if from.Balance < amount {
		return 0, fmt.Errorf("%w: balance %d, requested %d", domain.ErrInsufficientFunds, from.Balance, amount)
	}

	from.Balance -= amount
	to.Balance += amount
	from.Transactions = append(from.Transactions, &domain.Transaction{
		Timestamp:    ts,
		Kind:         domain.TxTransferOut,
		Amount:       amount,
		Counterparty: dst,
	})
	to.Transactions = append(to.Transactions, &domain.Transaction{
		Timestamp:    ts,
		Kind:         domain.TxTransferIn,
		Amount:       amount,
		Counterparty: src,
	})
	return from.Balance, nil
}

// Pay debits a card payment immediately and schedules its 2% cashback for
// one day later. The reward is not credited until the sweep settles it; the
// returned payment id is the handle for status queries.
func (e *Engine) Pay(ts int64, id string, amount int64) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if amount <= 0 {
		return "", fmt.Errorf("%w: payment amount must be positive", domain.ErrInvalidArgument)
	}
	a, ok := e.active(id)
	if !ok {
		return "", fmt.Errorf("%w: account %q", domain.ErrNotFound, id)
	}
	if a.Balance < amount {
		return "", fmt.Errorf("%w: balance %d, requested %d", domain.ErrInsufficientFunds, a.Balance, amount)
	}

	e.paymentSeq++
	paymentID := fmt.Sprintf("%s%d", paymentPrefix, e.paymentSeq)

	a.Balance -= amount
	a.Transactions = append(a.Transactions, &domain.Transaction{
		Timestamp: ts,
		Kind:      domain.TxPayment,
		Amount:    amount,
		PaymentID: paymentID,
	})

	cb := &domain.Transaction{
		Timestamp: ts + domain.OneDay,
		Kind:      domain.TxCashback,
		Amount:    domain.Cashback(amount),
		PaymentID: paymentID,
	}
	a.Transactions = append(a.Transactions, cb)
	e.payments[paymentID] = &paymentRecord{owner: id, cashback: cb}
	e.pending = append(e.pending, pendingCashback{acct: a, tx: cb})

	e.emit(domain.EventPaymentCreated, id, paymentID, amount, ts)
	return paymentID, nil
}

// GetPaymentStatus reports whether a payment's cashback has settled yet.
// A payment absorbed by a merge belongs to the absorbing account from the
// merge on; asking the old account reports not found.
func (e *Engine) GetPaymentStatus(ts int64, id, paymentID string) (domain.PaymentStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if _, ok := e.active(id); !ok {
		return "", fmt.Errorf("%w: account %q", domain.ErrNotFound, id)
	}
	rec, ok := e.payments[paymentID]
	if !ok || rec.owner != id {
		return "", fmt.Errorf("%w: payment %q on account %q", domain.ErrNotFound, paymentID, id)
	}
	if rec.cashback.Deposited {
		return domain.PaymentCashbackReceived, nil
	}
	return domain.PaymentInProgress, nil
}

// TopSpenders ranks active accounts by total outgoing money (transfers out
// plus card payments), descending, ties broken by ascending id. Absorbed
// history counts in full: merging immediately raises the absorber's total.
// Each entry is rendered "id(total)"; zero-total accounts are included.
func (e *Engine) TopSpenders(ts int64, n int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	type spender struct {
		id    string
		total int64
	}
	spenders := make([]spender, 0, len(e.accounts))
	for id, a := range e.accounts {
		if !a.Active() {
			continue
		}
		var total int64
		for _, tx := range a.Transactions {
			if tx.Kind == domain.TxTransferOut || tx.Kind == domain.TxPayment {
				total += tx.Amount
			}
		}
		spenders = append(spenders, spender{id: id, total: total})
	}
	sort.Slice(spenders, func(i, j int) bool {
		if spenders[i].total != spenders[j].total {
			return spenders[i].total > spenders[j].total
		}
		return spenders[i].id < spenders[j].id
	})

	if n < 0 {
		n = 0
	}
	if n > len(spenders) {
		n = len(spenders)
	}
	out := make([]string, 0, n)
	for _, s := range spenders[:n] {
		out = append(out, fmt.Sprintf("%s(%d)", s.id, s.total))
	}
	return out
}

// MergeAccounts absorbs src into dst: dst takes over src's balance and a
// provenance-tagged copy of its entire history, and src is frozen at ts.
// The merge is final; src never comes back, though its id may be reused by
// a later CreateAccount.
func (e *Engine) MergeAccounts(ts int64, dst, src string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	if dst == src {
		return fmt.Errorf("%w: cannot merge an account into itself", domain.ErrInvalidArgument)
	}
	a, ok := e.active(dst)
	if !ok {
		return fmt.Errorf("%w: account %q", domain.ErrNotFound, dst)
	}
	b, ok := e.active(src)
	if !ok {
		return fmt.Errorf("%w: account %q", domain.ErrNotFound, src)
	}

	absorbed := b.Balance
	a.Balance += absorbed

	// Copy the history with provenance. Original event times are kept so
	// historical replay stays attributable; a fact that already carried
	// provenance from an earlier merge now answers to this one.
	copies := make(map[*domain.Transaction]*domain.Transaction, len(b.Transactions))
	for _, tx := range b.Transactions {
		cp := *tx
		cp.MergedFrom = src
		cp.MergeTime = ts
		a.Transactions = append(a.Transactions, &cp)
		copies[tx] = &cp
	}

	// Unsettled cashbacks credit the absorbing account from now on.
	for i, p := range e.pending {
		if p.acct == b {
			e.pending[i] = pendingCashback{acct: a, tx: copies[p.tx]}
		}
	}
	// Payment status lookups follow the copied facts.
	for _, rec := range e.payments {
		if rec.owner == src {
			rec.owner = dst
			if cp, ok := copies[rec.cashback]; ok {
				rec.cashback = cp
			}
		}
	}

	b.State = domain.StateMerged
	b.MergedAt = ts

	e.emit(domain.EventAccountsMerged, dst, "", absorbed, ts)
	return nil
}

// GetBalance reconstructs the balance the account had at asOf by replaying
// its log: facts dated after asOf are skipped, and absorbed facts count only
// once their merge has happened. The live balance field is deliberately not
// consulted - it already reflects later merges and settled cashbacks.
func (e *Engine) GetBalance(ts int64, id string, asOf int64) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matureCashbacks(ts)

	a, ok := e.accounts[id]
	if !ok {
		return 0, fmt.Errorf("%w: account %q", domain.ErrNotFound, id)
	}
	if asOf < a.CreatedAt {
		return 0, fmt.Errorf("%w: account %q did not exist at %d", domain.ErrNotFound, id, asOf)
	}
	if a.State == domain.StateMerged && asOf >= a.MergedAt {
		return 0, fmt.Errorf("%w: account %q was merged away at %d", domain.ErrNotFound, id, a.MergedAt)
	}

	var balance int64
	for _, tx := range a.Transactions {
		if tx.Timestamp > asOf {
			continue
		}
		if tx.Absorbed() && tx.MergeTime > asOf {
			continue
		}
		balance += tx.Signed()
	}
	return balance, nil
}
