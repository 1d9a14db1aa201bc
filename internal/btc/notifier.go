package btc

import (
	"context"
	"sync"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
	log "github.com/sirupsen/logrus"
)

const (
	defaultCheckInterval = 30 * time.Second
	nodeEventBufferSize  = 4
)

// ChainInfo reads the chain state of the active node
type ChainInfo interface {
	GetBlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error)
}

// BTCNotifier polls the active node for its best block and publishes
// state.NewBlock when it changes. Changes seen while the node is still
// catching up are recorded but not published. Switching or deleting the
// active node forgets the recorded tip and polls again right away.
type BTCNotifier struct {
	client     ChainInfo
	bus        *state.EventBus
	classifier rpc.StatusClassifier
	interval   time.Duration

	mu             sync.RWMutex
	tip            state.BlockTip
	condition      rpc.NodeCondition
	catchingStatus bool
}

func NewBTCNotifier(client ChainInfo, bus *state.EventBus, interval time.Duration) *BTCNotifier {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	return &BTCNotifier{
		client:     client,
		bus:        bus,
		classifier: rpc.DefaultClassifier{},
		interval:   interval,
		condition:  rpc.ConditionUnknown,
	}
}

func (bn *BTCNotifier) Start(ctx context.Context) {
	nodeCh := make(chan interface{}, nodeEventBufferSize)
	bn.bus.Subscribe(state.NodeActivated, nodeCh)
	bn.bus.Subscribe(state.NodeDeleted, nodeCh)
	defer func() {
		bn.bus.Unsubscribe(state.NodeActivated, nodeCh)
		bn.bus.Unsubscribe(state.NodeDeleted, nodeCh)
	}()

	ticker := time.NewTicker(bn.interval)
	defer ticker.Stop()

	log.Infof("BTCNotifier started, interval %v", bn.interval)
	bn.checkTip(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping best block checks...")
			return
		case <-ticker.C:
			bn.checkTip(ctx)
		case id := <-nodeCh:
			log.Debugf("BTCNotifier node %v changed, resetting tip", id)
			bn.reset()
			bn.checkTip(ctx)
		}
	}
}

func (bn *BTCNotifier) reset() {
	bn.mu.Lock()
	defer bn.mu.Unlock()
	bn.tip = state.BlockTip{}
	bn.condition = rpc.ConditionUnknown
	bn.catchingStatus = false
}

func (bn *BTCNotifier) checkTip(ctx context.Context) {
	info, err := bn.client.GetBlockchainInfo(ctx)
	cond := bn.classifier.Classify(err)

	bn.mu.Lock()
	prevCond := bn.condition
	bn.condition = cond
	if err != nil {
		bn.mu.Unlock()
		if cond != prevCond {
			log.Warnf("Btc best block check failed, node is %s: %v", cond, err)
		} else {
			log.Debugf("Btc best block check failed: %v", err)
		}
		return
	}

	tip := state.BlockTip{Height: info.Blocks, Hash: info.BestBlockHash}
	changed := tip != bn.tip
	catching := info.InitialBlockDownload || info.Headers > info.Blocks
	bn.tip = tip
	bn.catchingStatus = catching
	bn.mu.Unlock()

	if !changed {
		return
	}
	if catching {
		log.Debugf("Btc node catching up, height %d of %d", info.Blocks, info.Headers)
		return
	}
	log.Infof("Btc new best block, height: %d, hash: %s", tip.Height, tip.Hash)
	bn.bus.Publish(state.NewBlock, tip)
}

func (bn *BTCNotifier) Tip() state.BlockTip {
	bn.mu.RLock()
	defer bn.mu.RUnlock()
	return bn.tip
}

func (bn *BTCNotifier) Condition() rpc.NodeCondition {
	bn.mu.RLock()
	defer bn.mu.RUnlock()
	return bn.condition
}

func (bn *BTCNotifier) CatchingUp() bool {
	bn.mu.RLock()
	defer bn.mu.RUnlock()
	return bn.catchingStatus
}
