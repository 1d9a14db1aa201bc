package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goatnetwork/node-bridge/internal/node"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
)

// handleExecute passes a raw command through to the active node
func (s *HTTPServer) handleExecute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request"})
		return
	}

	cmd := rpc.NewCommand(req.Method)
	if params := bytes.TrimSpace(req.Params); len(params) > 0 && !bytes.Equal(params, []byte("null")) {
		if params[0] != '[' && params[0] != '{' {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "params must be an array or an object"})
			return
		}
		cmd.Params = json.RawMessage(params)
	}

	wallet := req.Wallet
	if wallet == "" && rpc.Lookup(req.Method).WalletScoped {
		active, err := s.syncer.ActiveWallet(c.Request.Context())
		switch {
		case err == nil:
			wallet = active.Name
		case errors.Is(err, state.ErrNoActiveWallet), errors.Is(err, node.ErrNoActiveNode):
			// node default wallet, a missing node is reported by the call itself
		default:
			s.abortWithError(c, err)
			return
		}
	}

	out := s.client.Do(c.Request.Context(), cmd, wallet)
	if out.Err != nil {
		s.abortWithError(c, out.Err)
		return
	}
	c.JSON(http.StatusOK, ExecuteResponse{Result: out.Result, Attempts: out.Attempts})
}
