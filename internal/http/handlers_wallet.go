package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) handleListWallets(c *gin.Context) {
	wallets, err := s.syncer.ListWallets(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallets)
}

func (s *HTTPServer) handleAddWallet(c *gin.Context) {
	var req AddWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}
	wallet, err := s.syncer.AddWallet(c.Request.Context(), req.Name, req.Label)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wallet)
}

func (s *HTTPServer) handleDiscoverWallets(c *gin.Context) {
	added, err := s.syncer.DiscoverWallets(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": len(added), "wallets": added})
}

func (s *HTTPServer) handleActivateWallet(c *gin.Context) {
	wallet, err := s.syncer.ActivateWallet(c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// handleCachedUtxos serves the last reconciled set without contacting the node
func (s *HTTPServer) handleCachedUtxos(c *gin.Context) {
	utxos, err := s.syncer.CachedUtxos(c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UtxosResponse{Utxos: utxos})
}

func (s *HTTPServer) handleSyncWallet(c *gin.Context) {
	utxos, err := s.syncer.SyncWallet(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UtxosResponse{Utxos: utxos})
}

func (s *HTTPServer) handleSyncActive(c *gin.Context) {
	wallet, utxos, err := s.syncer.SyncActive(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, UtxosResponse{Wallet: wallet, Utxos: utxos})
}

func (s *HTTPServer) handleBalance(c *gin.Context) {
	balance, err := s.syncer.Balance(c.Param("id"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"wallet_id":   balance.WalletID,
		"confirmed":   balance.Confirmed.ToBTC(),
		"unconfirmed": balance.Unconfirmed.ToBTC(),
		"spendable":   balance.Spendable.ToBTC(),
		"total":       balance.Total().ToBTC(),
		"total_sats":  int64(balance.Total()),
		"count":       balance.Count,
	})
}
