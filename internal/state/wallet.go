package state

import (
	"time"

	"github.com/goatnetwork/node-bridge/internal/db"
	"gorm.io/gorm"
)

// AddWallet stores wallet, when activate is set the node's other wallets are
// deactivated in the same transaction
func (s *State) AddWallet(wallet *db.Wallet, activate bool) error {
	s.walletMu.Lock()
	defer s.walletMu.Unlock()

	wallet.IsActive = activate
	wallet.UpdatedAt = time.Now()

	return s.dbm.GetNodeDB().Transaction(func(tx *gorm.DB) error {
		if activate {
			if err := deactivateWallets(tx, wallet.NodeID); err != nil {
				return err
			}
		}
		return tx.Create(wallet).Error
	})
}

// ActivateWallet makes id the selected wallet of its node
func (s *State) ActivateWallet(id string) (*db.Wallet, error) {
	s.walletMu.Lock()
	defer s.walletMu.Unlock()

	var wallet db.Wallet
	err := s.dbm.GetNodeDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&wallet).Error; err != nil {
			return notFound(err, ErrWalletNotFound)
		}
		if err := deactivateWallets(tx, wallet.NodeID); err != nil {
			return err
		}
		wallet.IsActive = true
		wallet.UpdatedAt = time.Now()
		return tx.Save(&wallet).Error
	})
	if err != nil {
		return nil, err
	}
	return &wallet, nil
}

func (s *State) GetWallet(id string) (*db.Wallet, error) {
	s.walletMu.RLock()
	defer s.walletMu.RUnlock()

	var wallet db.Wallet
	if err := s.dbm.GetNodeDB().Where("id = ?", id).First(&wallet).Error; err != nil {
		return nil, notFound(err, ErrWalletNotFound)
	}
	return &wallet, nil
}

// GetActiveWallet returns the selected wallet of nodeID
func (s *State) GetActiveWallet(nodeID string) (*db.Wallet, error) {
	s.walletMu.RLock()
	defer s.walletMu.RUnlock()

	var wallet db.Wallet
	err := s.dbm.GetNodeDB().Where("node_id = ? AND is_active = ?", nodeID, true).First(&wallet).Error
	if err != nil {
		return nil, notFound(err, ErrNoActiveWallet)
	}
	return &wallet, nil
}

func (s *State) ListWallets(nodeID string) ([]db.Wallet, error) {
	s.walletMu.RLock()
	defer s.walletMu.RUnlock()

	var wallets []db.Wallet
	if err := s.dbm.GetNodeDB().Where("node_id = ?", nodeID).Order("name asc").Find(&wallets).Error; err != nil {
		return nil, err
	}
	return wallets, nil
}

func deactivateWallets(tx *gorm.DB, nodeID string) error {
	return tx.Model(&db.Wallet{}).Where("node_id = ? AND is_active = ?", nodeID, true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}
