package ledger

import (
	"github.com/ibrahimkeyboad/goledger/internal/core/domain"
)

// Accounts returns deep copies of every account record, merged accounts
// included. Used by the snapshot store; callers can mutate the result freely.
func (e *Engine) Accounts() []*domain.Account {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]*domain.Account, 0, len(e.accounts))
	for _, a := range e.accounts {
		cp := *a
		cp.Transactions = make([]*domain.Transaction, len(a.Transactions))
		for i, tx := range a.Transactions {
			txCopy := *tx
			cp.Transactions[i] = &txCopy
		}
		out = append(out, &cp)
	}
	return out
}

// PaymentSeq returns the number of payments issued so far.
func (e *Engine) PaymentSeq() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paymentSeq
}

// Restore replaces the engine's entire state and rebuilds the payment and
// pending-cashback indexes from the transaction logs. The engine takes
// ownership of the passed records.
func (e *Engine) Restore(accounts []*domain.Account, paymentSeq int64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accounts = make(map[string]*domain.Account, len(accounts))
	e.payments = make(map[string]*paymentRecord)
	e.pending = nil
	e.paymentSeq = paymentSeq

	for _, a := range accounts {
		e.accounts[a.ID] = a
	}

	// A payment is owned by whichever active account holds it on its log:
	// after a merge that is the absorbing account, and the copied cashback
	// fact is the one status lookups must follow.
	for _, a := range e.accounts {
		if !a.Active() {
			continue
		}
		for _, tx := range a.Transactions {
			switch tx.Kind {
			case domain.TxPayment:
				e.payments[tx.PaymentID] = &paymentRecord{owner: a.ID}
			case domain.TxCashback:
				if rec, ok := e.payments[tx.PaymentID]; ok {
					rec.cashback = tx
				}
				if !tx.Deposited {
					e.pending = append(e.pending, pendingCashback{acct: a, tx: tx})
				}
			}
		}
	}
}
