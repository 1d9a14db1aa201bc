package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	goerrors "github.com/go-errors/errors"
	"github.com/goatnetwork/node-bridge/internal/node"
	"github.com/goatnetwork/node-bridge/internal/rpc"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/goatnetwork/node-bridge/internal/utxo"
	log "github.com/sirupsen/logrus"
)

// abortWithError writes err with the status it maps to
func (s *HTTPServer) abortWithError(c *gin.Context, err error) {
	status, resp := s.errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Errorf("HTTP %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, resp)
}

func (s *HTTPServer) errorResponse(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var rpcErr *rpc.Error
	if errors.As(err, &rpcErr) {
		cond := s.classifier.Classify(err)
		resp.Cause = rpcErr.Cause.String()
		resp.Code = int(rpcErr.Code)
		resp.Condition = cond.String()
		resp.Guidance = rpc.Guidance(cond)
		return rpcStatus(rpcErr.Cause), resp
	}

	var uriErr *goerrors.Error
	switch {
	case errors.Is(err, state.ErrNodeNotFound), errors.Is(err, state.ErrWalletNotFound):
		return http.StatusNotFound, resp
	case errors.Is(err, node.ErrNoActiveNode), errors.Is(err, state.ErrNoActiveWallet):
		return http.StatusConflict, resp
	case errors.Is(err, node.ErrEmptyCredentials), errors.Is(err, utxo.ErrEmptyWalletName), errors.As(err, &uriErr):
		return http.StatusBadRequest, resp
	case errors.Is(err, utxo.ErrInvalidUnspent):
		return http.StatusBadGateway, resp
	default:
		return http.StatusInternalServerError, resp
	}
}

func rpcStatus(cause rpc.Cause) int {
	switch cause {
	case rpc.CauseNoActiveNode:
		return http.StatusConflict
	case rpc.CauseRPC:
		return http.StatusUnprocessableEntity
	case rpc.CauseTransport:
		return http.StatusGatewayTimeout
	case rpc.CauseAuth, rpc.CauseForbidden, rpc.CauseUndecodable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
