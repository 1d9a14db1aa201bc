package migrations

import (
	"gorm.io/gorm"
)

// AddUtxoWalletOutpointIndex makes an outpoint unique inside one wallet's cache
func AddUtxoWalletOutpointIndex(tx *gorm.DB) error {
	// Older caches may hold duplicates from interrupted syncs, keep the newest row
	if err := tx.Exec(`DELETE FROM utxos WHERE rowid NOT IN (
		SELECT MAX(rowid) FROM utxos GROUP BY wallet_id, txid, vout)`).Error; err != nil {
		return err
	}

	if err := tx.Exec("CREATE UNIQUE INDEX IF NOT EXISTS utxo_wallet_outpoint_index ON utxos (wallet_id, txid, vout)").Error; err != nil {
		return err
	}

	return nil
}
