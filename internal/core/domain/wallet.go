package domain

import (
	"math/big"
	"time"
)

// WalletRole identifies one of the three isolated treasury wallets.
type WalletRole string

const (
	WalletRoleHot  WalletRole = "hot"  // game wallet: receives bets, pays winners, runs swaps
	WalletRoleCold WalletRole = "cold" // rewards wallet
	WalletRoleBurn WalletRole = "burn" // airlock: empty outside a burn cycle
)

// WalletRoles lists every role in a stable order.
var WalletRoles = []WalletRole{WalletRoleHot, WalletRoleCold, WalletRoleBurn}

// IsValid reports whether r is a known role.
func (r WalletRole) IsValid() bool {
	switch r {
	case WalletRoleHot, WalletRoleCold, WalletRoleBurn:
		return true
	}
	return false
}

// Wallet is the singleton custody row for a role.
type Wallet struct {
	Role                WalletRole `json:"role"`
	PublicKey           string     `json:"public_key"` // checksummed 0x address
	EncryptedSecret     string     `json:"-"`          // hex IV‖tag‖ciphertext, never expose
	CachedNativeBalance *big.Int   `json:"-"`
	CachedTokenBalance  *big.Int   `json:"-"`
	TotalDistributed    int64      `json:"total_distributed"` // payouts sent, native minor units
	LastSync            *time.Time `json:"last_sync,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// WalletBalance is a fresh balance reading for a role.
type WalletBalance struct {
	Role     WalletRole `json:"role"`
	Address  string     `json:"address"`
	Native   Amount     `json:"native"`
	Token    Amount     `json:"token"`
	SyncedAt time.Time  `json:"synced_at"`
}
