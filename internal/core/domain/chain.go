package domain

import "math/big"

// TxCall is an unsigned call a wallet is asked to sign.
type TxCall struct {
	To       string
	Value    *big.Int
	Data     []byte
	GasLimit uint64 // 0 = estimate
}

// TxReceipt is the confirmed result of a broadcast transaction.
type TxReceipt struct {
	TxRef       string
	Success     bool
	BlockNumber uint64
	GasUsed     uint64
}

// Deposit describes a native transfer as observed on chain.
type Deposit struct {
	TxRef   string
	From    string
	To      string
	Value   *big.Int
	Success bool
}
