package http

import (
	"encoding/json"

	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/rpc"
)

type AddNodeRequest struct {
	Label    string `json:"label"`
	Scheme   string `json:"scheme"`
	Host     string `json:"host" binding:"required"`
	User     string `json:"user" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ImportNodeRequest struct {
	URI string `json:"uri" binding:"required"`
}

// UpdateNodeRequest fields left empty keep their stored value
type UpdateNodeRequest struct {
	Label    string `json:"label"`
	Host     string `json:"host"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type NodeResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Scheme   string `json:"scheme"`
	Host     string `json:"host,omitempty"`
	Onion    bool   `json:"onion"`
	Network  string `json:"network,omitempty"`
	IsActive bool   `json:"is_active"`
	// set when the stored credentials cannot be opened
	Error string `json:"error,omitempty"`
}

type NodeStatusResponse struct {
	rpc.NodeStatus
	Tip *TipResponse `json:"tip,omitempty"`
}

// TipResponse is the tip watcher's view between polls
type TipResponse struct {
	Height     int32  `json:"height"`
	Hash       string `json:"hash"`
	Condition  string `json:"condition"`
	CatchingUp bool   `json:"catching_up"`
}

// ExecuteRequest runs Method on the active node. Wallet-scoped methods go to
// the selected wallet when Wallet is empty.
type ExecuteRequest struct {
	Method string          `json:"method" binding:"required"`
	Params json.RawMessage `json:"params"`
	Wallet string          `json:"wallet"`
}

type ExecuteResponse struct {
	Result   json.RawMessage `json:"result"`
	Attempts int             `json:"attempts"`
}

type AddWalletRequest struct {
	Name  string `json:"name" binding:"required"`
	Label string `json:"label"`
}

type UtxosResponse struct {
	Wallet *db.Wallet `json:"wallet,omitempty"`
	Utxos  []db.Utxo  `json:"utxos"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Cause     string `json:"cause,omitempty"`
	Code      int    `json:"code,omitempty"`
	Condition string `json:"condition,omitempty"`
	Guidance  string `json:"guidance,omitempty"`
}
