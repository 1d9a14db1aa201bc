package rpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/btcsuite/btcd/btcjson"
)

// Cause is the failure class of a call
type Cause int

const (
	CauseUnknown Cause = iota
	CauseNoActiveNode
	CauseCredentialDecrypt
	CauseStoreUnavailable
	CauseTransport
	CauseAuth
	CauseForbidden
	CauseUndecodable
	CauseRPC
)

func (c Cause) String() string {
	switch c {
	case CauseNoActiveNode:
		return "no_active_node"
	case CauseCredentialDecrypt:
		return "credential_decrypt"
	case CauseStoreUnavailable:
		return "store_unavailable"
	case CauseTransport:
		return "transport"
	case CauseAuth:
		return "auth"
	case CauseForbidden:
		return "forbidden"
	case CauseUndecodable:
		return "undecodable"
	case CauseRPC:
		return "rpc"
	default:
		return "unknown"
	}
}

// Retryable reports whether the client retries a failure of this class
func (c Cause) Retryable() bool {
	return c == CauseTransport
}

var ErrResponseTooLarge = errors.New("response too large")

// ErrCodeInWarmup is returned by bitcoind while it is still starting up
const ErrCodeInWarmup btcjson.RPCErrorCode = -28

const (
	msgNoActiveNode      = "No active Bitcoin Core node."
	msgCredentialDecrypt = "Error decrypting your node credentials."
	msgUnknownRPCError   = "Unknown error from bitcoind."
	msgAuth              = "Looks like your rpc credentials are incorrect, please double check them. " +
		"If you changed your rpc creds in your bitcoin.conf you need to restart your node for the changes to take effect."
)

// Error is the single error type surfaced by the client. Error() returns
// the human readable message, Err keeps the underlying error.
type Error struct {
	Cause   Cause
	Code    btcjson.RPCErrorCode
	Method  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CauseOf returns the cause of err, CauseUnknown when err was not produced
// by the client
func CauseOf(err error) Cause {
	var e *Error
	if errors.As(err, &e) {
		return e.Cause
	}
	return CauseUnknown
}

func transportError(method string, err error) *Error {
	return &Error{
		Cause:   CauseTransport,
		Method:  method,
		Message: err.Error(),
		Err:     err,
	}
}

func undecodableError(method string, status int, err error) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Cause: CauseAuth, Method: method, Message: msgAuth, Err: err}
	case http.StatusForbidden:
		return &Error{
			Cause:  CauseForbidden,
			Method: method,
			Message: fmt.Sprintf("The bitcoin-cli %s command has not been added to your rpcwhitelist, "+
				"add %s to your bitcoin.conf rpcwhitelist, reboot Bitcoin Core and try again.", method, method),
			Err: err,
		}
	default:
		return &Error{
			Cause:   CauseUndecodable,
			Method:  method,
			Message: fmt.Sprintf("Unable to decode the response from your node, http status code: %d", status),
			Err:     err,
		}
	}
}

func tooLargeError(method string, status int, limit int64) *Error {
	return &Error{
		Cause:  CauseUndecodable,
		Method: method,
		Message: fmt.Sprintf("The response from your node is larger than %d MiB, http status code: %d",
			limit>>20, status),
		Err: ErrResponseTooLarge,
	}
}

func rpcError(method string, rpcErr *btcjson.RPCError) *Error {
	msg := rpcErr.Message
	if msg == "" {
		msg = msgUnknownRPCError
	}
	return &Error{
		Cause:   CauseRPC,
		Code:    rpcErr.Code,
		Method:  method,
		Message: msg,
		Err:     rpcErr,
	}
}
