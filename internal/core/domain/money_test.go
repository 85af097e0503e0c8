package domain

import "testing"

func TestCashbackTruncates(t *testing.T) {
	cases := []struct {
		amount int64
		want   int64
	}{
		{0, 0},
		{49, 0},   // 0.98 truncates to 0
		{50, 1},   // exactly 1
		{99, 1},   // 1.98 truncates to 1
		{100, 2},  // exactly 2
		{2499, 49},
		{2500, 50},
	}
	for _, c := range cases {
		if got := Cashback(c.amount); got != c.want {
			t.Errorf("Cashback(%d)=%d want=%d", c.amount, got, c.want)
		}
	}
}

func TestFormatMinor(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1050, "10.50"},
		{-250, "-2.50"},
	}
	for _, c := range cases {
		if got := FormatMinor(c.amount); got != c.want {
			t.Errorf("FormatMinor(%d)=%q want=%q", c.amount, got, c.want)
		}
	}
}

func TestTransactionSigned(t *testing.T) {
	cases := []struct {
		kind TxKind
		want int64
	}{
		{TxDeposit, 10},
		{TxTransferIn, 10},
		{TxCashback, 10},
		{TxTransferOut, -10},
		{TxPayment, -10},
	}
	for _, c := range cases {
		tx := &Transaction{Kind: c.kind, Amount: 10}
		if got := tx.Signed(); got != c.want {
			t.Errorf("Signed(%s)=%d want=%d", c.kind, got, c.want)
		}
	}
}
