package state

import (
	"time"

	"github.com/goatnetwork/node-bridge/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const utxoBatchSize = 200

// ReplaceWalletUtxos swaps the cached utxo set of walletID for utxos. The
// delete and the inserts share one transaction, readers see either the old
// set or the new one. A wallet removed while its listunspent was in flight
// gets ErrWalletNotFound and no rows.
func (s *State) ReplaceWalletUtxos(walletID string, utxos []db.Utxo) error {
	for i := range utxos {
		if utxos[i].WalletID != walletID {
			return ErrInvalidUtxoOwner
		}
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	// DeleteNode holds cacheMu while it drops wallets, so the check stays valid
	// until the transaction commits
	if _, err := s.GetWallet(walletID); err != nil {
		return err
	}

	now := time.Now()
	err := s.dbm.GetCacheDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("wallet_id = ?", walletID).Delete(&db.Utxo{}).Error; err != nil {
			return err
		}
		if len(utxos) == 0 {
			return nil
		}
		for i := range utxos {
			utxos[i].UpdatedAt = now
		}
		return tx.CreateInBatches(utxos, utxoBatchSize).Error
	})
	if err != nil {
		log.Errorf("State ReplaceWalletUtxos error, wallet %s: %v", walletID, err)
		return err
	}
	return nil
}

// GetWalletUtxos reads the cached utxo set of walletID
func (s *State) GetWalletUtxos(walletID string) ([]db.Utxo, error) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	var utxos []db.Utxo
	err := s.dbm.GetCacheDB().Where("wallet_id = ?", walletID).
		Order("confirmations asc, txid asc, vout asc").Find(&utxos).Error
	if err != nil {
		return nil, err
	}
	return utxos, nil
}

// deleteWalletUtxos drops the cached rows of walletIDs, callers hold cacheMu
func (s *State) deleteWalletUtxos(walletIDs []string) error {
	if len(walletIDs) == 0 {
		return nil
	}
	return s.dbm.GetCacheDB().Where("wallet_id IN ?", walletIDs).Delete(&db.Utxo{}).Error
}
