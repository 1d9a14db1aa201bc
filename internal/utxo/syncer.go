package utxo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/node"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	defaultSyncInterval = 10 * time.Minute
	eventBufferSize     = 16
)

var ErrInvalidUnspent = errors.New("invalid listunspent entry")

// NodeClient is the part of the rpc client the syncer uses
type NodeClient interface {
	ListUnspent(ctx context.Context, wallet string) ([]rpc.UnspentOutput, error)
	ListWallets(ctx context.Context) ([]string, error)
}

// ActiveNode resolves the active node record
type ActiveNode interface {
	GetActiveNode(ctx context.Context) (*db.Node, error)
}

// Store is the wallet and cache part of the state
type Store interface {
	ReplaceWalletUtxos(walletID string, utxos []db.Utxo) error
	GetWalletUtxos(walletID string) ([]db.Utxo, error)
	AddWallet(wallet *db.Wallet, activate bool) error
	ActivateWallet(id string) (*db.Wallet, error)
	GetWallet(id string) (*db.Wallet, error)
	GetActiveWallet(nodeID string) (*db.Wallet, error)
	ListWallets(nodeID string) ([]db.Wallet, error)
}

// Syncer keeps the cached utxo set of each wallet equal to what the node
// last reported
type Syncer struct {
	store    Store
	client   NodeClient
	nodes    ActiveNode
	bus      *state.EventBus
	interval time.Duration
}

func NewSyncer(store Store, client NodeClient, nodes ActiveNode, bus *state.EventBus, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &Syncer{
		store:    store,
		client:   client,
		nodes:    nodes,
		bus:      bus,
		interval: interval,
	}
}

// FetchAndReconcile lists the wallet's unspent outputs and replaces its
// cached rows with them. A failed call leaves the cache untouched. A failed
// cache write is logged and the fresh set is still returned.
func (s *Syncer) FetchAndReconcile(ctx context.Context, wallet *db.Wallet) ([]db.Utxo, error) {
	outputs, err := s.client.ListUnspent(ctx, wallet.Name)
	if err != nil {
		log.Warnf("Syncer listunspent failed for wallet %s: %v", wallet.Name, err)
		return nil, err
	}

	utxos, err := toCacheRows(wallet.ID, outputs)
	if err != nil {
		log.Errorf("Syncer got an invalid listunspent result for wallet %s: %v", wallet.Name, err)
		return nil, err
	}

	if err := s.store.ReplaceWalletUtxos(wallet.ID, utxos); err != nil {
		log.Errorf("Syncer failed to cache %d utxos of wallet %s: %v", len(utxos), wallet.Name, err)
	} else {
		log.Debugf("Syncer cached %d utxos of wallet %s", len(utxos), wallet.Name)
	}
	return utxos, nil
}

// toCacheRows converts listunspent entries, a repeated outpoint keeps its
// last entry
func toCacheRows(walletID string, outputs []rpc.UnspentOutput) ([]db.Utxo, error) {
	utxos := make([]db.Utxo, 0, len(outputs))
	index := make(map[string]int, len(outputs))
	for i, out := range outputs {
		if _, err := chainhash.NewHashFromStr(out.TxID); err != nil || len(out.TxID) != chainhash.MaxHashStringSize {
			return nil, fmt.Errorf("%w %d: txid %q", ErrInvalidUnspent, i, out.TxID)
		}
		amount, err := btcutil.NewAmount(out.Amount)
		if err != nil || amount < 0 {
			return nil, fmt.Errorf("%w %d: amount %v", ErrInvalidUnspent, i, out.Amount)
		}

		row := db.Utxo{
			ID:            uuid.New().String(),
			WalletID:      walletID,
			Txid:          out.TxID,
			Vout:          out.Vout,
			Amount:        out.Amount,
			AmountSats:    int64(amount),
			Confirmations: out.Confirmations,
			Spendable:     out.Spendable,
			Solvable:      out.Solvable,
			Safe:          out.Safe,
			Reused:        out.Reused,
			Address:       out.Address,
			Desc:          out.Desc,
			Label:         out.Label,
			ScriptPubKey:  out.ScriptPubKey,
			RedeemScript:  out.RedeemScript,
			WitnessScript: out.WitnessScript,
		}

		key := fmt.Sprintf("%s:%d", out.TxID, out.Vout)
		if at, ok := index[key]; ok {
			utxos[at] = row
			continue
		}
		index[key] = len(utxos)
		utxos = append(utxos, row)
	}
	return utxos, nil
}

// ActiveWallet returns the selected wallet of the active node
func (s *Syncer) ActiveWallet(ctx context.Context) (*db.Wallet, error) {
	n, err := s.nodes.GetActiveNode(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.GetActiveWallet(n.ID)
}

// SyncActive reconciles the selected wallet of the active node
func (s *Syncer) SyncActive(ctx context.Context) (*db.Wallet, []db.Utxo, error) {
	wallet, err := s.ActiveWallet(ctx)
	if err != nil {
		return nil, nil, err
	}
	utxos, err := s.FetchAndReconcile(ctx, wallet)
	return wallet, utxos, err
}

// SyncWallet reconciles the wallet with id
func (s *Syncer) SyncWallet(ctx context.Context, id string) ([]db.Utxo, error) {
	wallet, err := s.store.GetWallet(id)
	if err != nil {
		return nil, err
	}
	return s.FetchAndReconcile(ctx, wallet)
}

// CachedUtxos reads the last reconciled set without contacting the node
func (s *Syncer) CachedUtxos(walletID string) ([]db.Utxo, error) {
	return s.store.GetWalletUtxos(walletID)
}

// Balance is the cached balance of a wallet
type Balance struct {
	WalletID    string         `json:"wallet_id"`
	Confirmed   btcutil.Amount `json:"confirmed"`
	Unconfirmed btcutil.Amount `json:"unconfirmed"`
	Spendable   btcutil.Amount `json:"spendable"`
	Count       int            `json:"count"`
}

func (b Balance) Total() btcutil.Amount {
	return b.Confirmed + b.Unconfirmed
}

func (s *Syncer) Balance(walletID string) (Balance, error) {
	utxos, err := s.store.GetWalletUtxos(walletID)
	if err != nil {
		return Balance{}, err
	}
	b := Balance{WalletID: walletID, Count: len(utxos)}
	for _, u := range utxos {
		amount := btcutil.Amount(u.AmountSats)
		if u.Confirmations > 0 {
			b.Confirmed += amount
		} else {
			b.Unconfirmed += amount
		}
		if u.Spendable {
			b.Spendable += amount
		}
	}
	return b, nil
}

// Start syncs the active wallet every interval, on every new block and
// whenever the active node or wallet changes
func (s *Syncer) Start(ctx context.Context) {
	eventCh := make(chan interface{}, eventBufferSize)
	s.bus.Subscribe(state.NodeActivated, eventCh)
	s.bus.Subscribe(state.WalletActivated, eventCh)
	s.bus.Subscribe(state.NewBlock, eventCh)
	defer func() {
		s.bus.Unsubscribe(state.NodeActivated, eventCh)
		s.bus.Unsubscribe(state.WalletActivated, eventCh)
		s.bus.Unsubscribe(state.NewBlock, eventCh)
	}()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Infof("Syncer started, interval %v", s.interval)
	s.syncActive(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Syncer stopped.")
			return
		case <-ticker.C:
			s.syncActive(ctx)
		case event := <-eventCh:
			log.Debugf("Syncer received event %v", event)
			drain(eventCh)
			s.syncActive(ctx)
		}
	}
}

func (s *Syncer) syncActive(ctx context.Context) {
	wallet, utxos, err := s.SyncActive(ctx)
	if err != nil {
		if errors.Is(err, state.ErrNoActiveWallet) || errors.Is(err, node.ErrNoActiveNode) {
			log.Debugf("Syncer skipped: %v", err)
			return
		}
		log.Warnf("Syncer sync failed: %v", err)
		return
	}
	log.Infof("Syncer reconciled wallet %s, %d utxos", wallet.Name, len(utxos))
}

// drain coalesces pending events into one sync
func drain(ch chan interface{}) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
