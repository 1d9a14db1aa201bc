package state

import "errors"

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrWalletNotFound   = errors.New("wallet not found")
	ErrNoActiveWallet   = errors.New("no active wallet")
	ErrInvalidUtxoOwner = errors.New("utxo wallet id does not match the reconciled wallet")
)

// BlockTip is published when the active node reports a new best block
type BlockTip struct {
	Height int32
	Hash   string
}
