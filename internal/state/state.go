package state

import (
	"sync"

	"github.com/goatnetwork/node-bridge/internal/db"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// State is the persisted node, wallet and utxo cache state
type State struct {
	EventBus *EventBus

	dbm *db.DatabaseManager

	// Separate mutexes for different sub-modules
	nodeMu   sync.RWMutex
	walletMu sync.RWMutex
	cacheMu  sync.RWMutex
}

// InitializeState opens the state on top of dbm and keeps only one node
// active if an older build left several active
func InitializeState(dbm *db.DatabaseManager) *State {
	s := &State{
		EventBus: NewEventBus(),
		dbm:      dbm,
	}

	var nodes []db.Node
	if err := dbm.GetNodeDB().Order("updated_at desc").Find(&nodes).Error; err != nil {
		log.Warnf("Failed to load nodes: %v", err)
	}

	var active []string
	for _, n := range nodes {
		if n.IsActive {
			active = append(active, n.ID)
		}
	}
	if len(active) > 1 {
		log.Warnf("State found %d active nodes, keeping most recent %s", len(active), active[0])
		if err := s.ActivateNode(active[0]); err != nil {
			log.Errorf("State failed to repair active node: %v", err)
		}
	}

	var walletCount, utxoCount int64
	dbm.GetNodeDB().Model(&db.Wallet{}).Count(&walletCount)
	dbm.GetCacheDB().Model(&db.Utxo{}).Count(&utxoCount)

	log.Infof("State init on startup, nodes: %d, active: %d, wallets: %d, cached utxos: %d",
		len(nodes), len(active), walletCount, utxoCount)

	return s
}

func notFound(err, sentinel error) error {
	if err == gorm.ErrRecordNotFound {
		return sentinel
	}
	return err
}
