package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/goatnetwork/node-bridge/internal/btc"
	"github.com/goatnetwork/node-bridge/internal/cipher"
	"github.com/goatnetwork/node-bridge/internal/config"
	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/http"
	"github.com/goatnetwork/node-bridge/internal/node"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/goatnetwork/node-bridge/internal/utxo"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	DatabaseManager *db.DatabaseManager
	State           *state.State
	NodeSelector    *node.Selector
	RPCClient       *rpc.Client
	UtxoSyncer      *utxo.Syncer
	BTCNotifier     *btc.BTCNotifier
	HTTPServer      *http.HTTPServer
}

func NewApplication() *Application {
	config.InitConfig()

	secretBox, err := cipher.NewSecretBox(config.AppConfig.NodeSecret)
	if err != nil {
		log.Fatalf("Failed to init credential cipher: %v", err)
	}

	dbm := db.NewDatabaseManager()
	state := state.InitializeState(dbm)
	selector := node.NewSelector(state, secretBox, state.EventBus)
	transports := rpc.NewTransportSelector(config.AppConfig.TorProxy)
	client := rpc.NewClient(selector, transports, rpc.TimeoutsFromConfig(), config.AppConfig.RPCMaxAttempts)
	syncer := utxo.NewSyncer(state, client, selector, state.EventBus, config.AppConfig.UtxoSyncInterval)
	btcNotifier := btc.NewBTCNotifier(client, state.EventBus, config.AppConfig.TipPollInterval)
	httpServer := http.NewHTTPServer(selector, client, syncer, btcNotifier)

	return &Application{
		DatabaseManager: dbm,
		State:           state,
		NodeSelector:    selector,
		RPCClient:       client,
		UtxoSyncer:      syncer,
		BTCNotifier:     btcNotifier,
		HTTPServer:      httpServer,
	}
}

func (app *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.UtxoSyncer.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.BTCNotifier.Start(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.HTTPServer.Start(ctx)
	}()

	<-stop
	log.Info("Receiving exit signal...")

	cancel()

	wg.Wait()
	log.Info("Server stopped")
}

func main() {
	app := NewApplication()
	app.Run()
}
