package utxo

import (
	"context"
	"errors"
	"time"

	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyWalletName = errors.New("wallet name is empty")

// AddWallet records a node wallet under the active node and selects it
func (s *Syncer) AddWallet(ctx context.Context, name, label string) (*db.Wallet, error) {
	if name == "" {
		return nil, ErrEmptyWalletName
	}
	n, err := s.nodes.GetActiveNode(ctx)
	if err != nil {
		return nil, err
	}
	if label == "" {
		label = name
	}

	wallet := &db.Wallet{
		ID:     uuid.New().String(),
		Name:   name,
		Label:  label,
		NodeID: n.ID,
	}
	if err := s.store.AddWallet(wallet, true); err != nil {
		return nil, err
	}
	log.Infof("Syncer added wallet %s to node %s", name, n.ID)
	s.bus.Publish(state.WalletActivated, wallet.ID)
	return wallet, nil
}

// ActivateWallet selects the wallet with id
func (s *Syncer) ActivateWallet(id string) (*db.Wallet, error) {
	wallet, err := s.store.ActivateWallet(id)
	if err != nil {
		return nil, err
	}
	s.bus.Publish(state.WalletActivated, wallet.ID)
	return wallet, nil
}

// ListWallets lists the wallet records of the active node
func (s *Syncer) ListWallets(ctx context.Context) ([]db.Wallet, error) {
	n, err := s.nodes.GetActiveNode(ctx)
	if err != nil {
		return nil, err
	}
	return s.store.ListWallets(n.ID)
}

// DiscoverWallets records the wallets loaded on the active node that have
// no record yet. When the node has no selected wallet the first one found
// is selected.
func (s *Syncer) DiscoverWallets(ctx context.Context) ([]db.Wallet, error) {
	n, err := s.nodes.GetActiveNode(ctx)
	if err != nil {
		return nil, err
	}
	loaded, err := s.client.ListWallets(ctx)
	if err != nil {
		return nil, err
	}
	known, err := s.store.ListWallets(n.ID)
	if err != nil {
		return nil, err
	}

	hasActive := false
	names := make(map[string]struct{}, len(known))
	for _, w := range known {
		names[w.Name] = struct{}{}
		hasActive = hasActive || w.IsActive
	}

	var added []db.Wallet
	for _, name := range loaded {
		if _, ok := names[name]; ok {
			continue
		}
		names[name] = struct{}{}

		label := name
		if label == "" {
			label = "Default wallet"
		}
		wallet := &db.Wallet{
			ID:        uuid.New().String(),
			Name:      name,
			Label:     label,
			NodeID:    n.ID,
			UpdatedAt: time.Now(),
		}
		activate := !hasActive
		if err := s.store.AddWallet(wallet, activate); err != nil {
			return added, err
		}
		if activate {
			hasActive = true
			s.bus.Publish(state.WalletActivated, wallet.ID)
		}
		added = append(added, *wallet)
	}

	log.Infof("Syncer discovered %d new wallets on node %s", len(added), n.ID)
	return added, nil
}
