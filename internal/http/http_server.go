package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goatnetwork/node-bridge/internal/config"
	"github.com/goatnetwork/node-bridge/internal/node"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/goatnetwork/node-bridge/internal/utxo"
	log "github.com/sirupsen/logrus"
)

// TipWatcher is the last polled chain state of the active node
type TipWatcher interface {
	Tip() state.BlockTip
	Condition() rpc.NodeCondition
	CatchingUp() bool
}

type HTTPServer struct {
	selector   *node.Selector
	client     *rpc.Client
	syncer     *utxo.Syncer
	tips       TipWatcher
	classifier rpc.StatusClassifier
	jwtSecret  []byte
}

// NewHTTPServer builds the api, tips may be nil when no tip watcher runs
func NewHTTPServer(selector *node.Selector, client *rpc.Client, syncer *utxo.Syncer, tips TipWatcher) *HTTPServer {
	return &HTTPServer{
		selector:   selector,
		client:     client,
		syncer:     syncer,
		tips:       tips,
		classifier: rpc.DefaultClassifier{},
		jwtSecret:  []byte(config.AppConfig.APIJwtSecret),
	}
}

func (s *HTTPServer) Start(ctx context.Context) {
	if len(s.jwtSecret) == 0 {
		log.Warn("API_JWT_SECRET is empty, the HTTP API is not authenticated")
	}

	srv := &http.Server{
		Addr:              ":" + config.AppConfig.HTTPPort,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("HTTP server is running on port %s", config.AppConfig.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown error: %v", err)
	}
	log.Info("HTTP server stopped.")
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/api/v1/health", handleHealth)

	api := r.Group("/api/v1", s.authMiddleware())

	api.GET("/nodes", s.handleListNodes)
	api.POST("/nodes", s.handleAddNode)
	api.POST("/nodes/import", s.handleImportNode)
	api.PUT("/nodes/:id", s.handleUpdateNode)
	api.DELETE("/nodes/:id", s.handleDeleteNode)
	api.POST("/nodes/:id/activate", s.handleActivateNode)
	api.GET("/node/status", s.handleNodeStatus)

	api.POST("/rpc", s.handleExecute)

	api.GET("/wallets", s.handleListWallets)
	api.POST("/wallets", s.handleAddWallet)
	api.POST("/wallets/discover", s.handleDiscoverWallets)
	api.POST("/wallets/:id/activate", s.handleActivateWallet)
	api.GET("/wallets/:id/utxos", s.handleCachedUtxos)
	api.POST("/wallets/:id/sync", s.handleSyncWallet)
	api.GET("/wallets/:id/balance", s.handleBalance)
	api.POST("/sync", s.handleSyncActive)

	return r
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
