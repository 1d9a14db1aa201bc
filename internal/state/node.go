package state

import (
	"time"

	"github.com/goatnetwork/node-bridge/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ListNodes returns all stored nodes, oldest first
func (s *State) ListNodes() ([]db.Node, error) {
	s.nodeMu.RLock()
	defer s.nodeMu.RUnlock()

	var nodes []db.Node
	if err := s.dbm.GetNodeDB().Order("created_at asc").Find(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *State) GetNode(id string) (*db.Node, error) {
	s.nodeMu.RLock()
	defer s.nodeMu.RUnlock()

	var node db.Node
	if err := s.dbm.GetNodeDB().Where("id = ?", id).First(&node).Error; err != nil {
		return nil, notFound(err, ErrNodeNotFound)
	}
	return &node, nil
}

// AddNode stores node, when activate is set every other node is deactivated
// in the same transaction
func (s *State) AddNode(node *db.Node, activate bool) error {
	s.nodeMu.Lock()
	defer s.nodeMu.Unlock()

	now := time.Now()
	node.IsActive = activate
	node.CreatedAt = now
	node.UpdatedAt = now

	return s.dbm.GetNodeDB().Transaction(func(tx *gorm.DB) error {
		if activate {
			if err := deactivateNodes(tx); err != nil {
				return err
			}
		}
		return tx.Create(node).Error
	})
}

// ActivateNode makes id the only active node
func (s *State) ActivateNode(id string) error {
	s.nodeMu.Lock()
	defer s.nodeMu.Unlock()

	err := s.dbm.GetNodeDB().Transaction(func(tx *gorm.DB) error {
		var node db.Node
		if err := tx.Where("id = ?", id).First(&node).Error; err != nil {
			return notFound(err, ErrNodeNotFound)
		}
		if err := deactivateNodes(tx); err != nil {
			return err
		}
		return tx.Model(&db.Node{}).Where("id = ?", id).
			Updates(map[string]interface{}{"is_active": true, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return err
	}

	log.Infof("State activated node %s", id)
	return nil
}

// UpdateNodeCredentials replaces the encrypted fields of a node, nil
// arguments keep the stored value
func (s *State) UpdateNodeCredentials(id string, label *string, address, user, password []byte) error {
	s.nodeMu.Lock()
	defer s.nodeMu.Unlock()

	updates := map[string]interface{}{"updated_at": time.Now()}
	if label != nil {
		updates["label"] = *label
	}
	if address != nil {
		updates["address"] = address
	}
	if user != nil {
		updates["rpc_user"] = user
	}
	if password != nil {
		updates["rpc_password"] = password
	}

	result := s.dbm.GetNodeDB().Model(&db.Node{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNodeNotFound
	}
	return nil
}

// DeleteNode removes a node together with its wallets and their cached utxos
func (s *State) DeleteNode(id string) error {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.nodeMu.Lock()
	var walletIDs []string
	err := s.dbm.GetNodeDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.Wallet{}).Where("node_id = ?", id).Pluck("id", &walletIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("node_id = ?", id).Delete(&db.Wallet{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&db.Node{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNodeNotFound
		}
		return nil
	})
	s.nodeMu.Unlock()
	if err != nil {
		return err
	}

	if err := s.deleteWalletUtxos(walletIDs); err != nil {
		log.Errorf("State failed to drop cached utxos of node %s: %v", id, err)
	}
	return nil
}

func deactivateNodes(tx *gorm.DB) error {
	return tx.Model(&db.Node{}).Where("is_active = ?", true).
		Updates(map[string]interface{}{"is_active": false, "updated_at": time.Now()}).Error
}
