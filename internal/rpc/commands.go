package rpc

import (
	"time"

	"github.com/goatnetwork/node-bridge/internal/config"
)

// Method names the bridge issues itself, anything else is passed through as is
const (
	MethodGetBlockchainInfo  = "getblockchaininfo"
	MethodGetDescriptorInfo  = "getdescriptorinfo"
	MethodDeriveAddresses    = "deriveaddresses"
	MethodListUnspent        = "listunspent"
	MethodListWallets        = "listwallets"
	MethodLoadWallet         = "loadwallet"
	MethodGetTxOutSetInfo    = "gettxoutsetinfo"
	MethodImportMulti        = "importmulti"
	MethodImportDescriptors  = "importdescriptors"
	MethodGetWalletInfo      = "getwalletinfo"
	MethodGetBalances        = "getbalances"
	MethodGetNewAddress      = "getnewaddress"
	MethodListTransactions   = "listtransactions"
	MethodRescanBlockchain   = "rescanblockchain"
	MethodWalletCreateFunded = "walletcreatefundedpsbt"
	MethodWalletProcessPsbt  = "walletprocesspsbt"
)

type TimeoutClass int

const (
	TimeoutDefault TimeoutClass = iota
	TimeoutBulk
	TimeoutScan
)

func (c TimeoutClass) String() string {
	switch c {
	case TimeoutBulk:
		return "bulk"
	case TimeoutScan:
		return "scan"
	default:
		return "default"
	}
}

// CommandSpec is the static metadata of a method
type CommandSpec struct {
	Method       string
	WalletScoped bool
	Timeout      TimeoutClass
}

// walletScoped methods are sent to /wallet/<name> when a wallet is given
var walletScoped = []string{
	MethodListUnspent,
	MethodImportMulti,
	MethodImportDescriptors,
	MethodRescanBlockchain,
	MethodGetWalletInfo,
	MethodGetBalances,
	MethodGetNewAddress,
	MethodListTransactions,
	MethodWalletCreateFunded,
	MethodWalletProcessPsbt,
	"abandontransaction",
	"bumpfee",
	"getaddressinfo",
	"getrawchangeaddress",
	"gettransaction",
	"listdescriptors",
	"listlabels",
	"listlockunspent",
	"lockunspent",
	"sendtoaddress",
	"setlabel",
	"signrawtransactionwithwallet",
	"unloadwallet",
	"walletlock",
	"walletpassphrase",
}

var timeoutClasses = map[string]TimeoutClass{
	MethodGetTxOutSetInfo:   TimeoutScan,
	MethodImportMulti:       TimeoutBulk,
	MethodImportDescriptors: TimeoutBulk,
	MethodDeriveAddresses:   TimeoutBulk,
	MethodLoadWallet:        TimeoutBulk,
	MethodRescanBlockchain:  TimeoutBulk,
}

var catalog = buildCatalog()

func buildCatalog() map[string]CommandSpec {
	c := make(map[string]CommandSpec, len(walletScoped)+len(timeoutClasses))
	for _, m := range walletScoped {
		c[m] = CommandSpec{Method: m, WalletScoped: true}
	}
	for m, class := range timeoutClasses {
		spec := c[m]
		spec.Method = m
		spec.Timeout = class
		c[m] = spec
	}
	return c
}

// Lookup returns the catalog entry for method. Unknown methods are not
// wallet scoped and use the default timeout.
func Lookup(method string) CommandSpec {
	if spec, ok := catalog[method]; ok {
		return spec
	}
	return CommandSpec{Method: method, Timeout: TimeoutDefault}
}

// Timeouts maps the catalog timeout classes to durations
type Timeouts struct {
	Default time.Duration
	Bulk    time.Duration
	Scan    time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Default: 10 * time.Second,
		Bulk:    60 * time.Second,
		Scan:    1000 * time.Second,
	}
}

// TimeoutsFromConfig reads the timeout classes from config.AppConfig, zero
// values keep the defaults
func TimeoutsFromConfig() Timeouts {
	t := DefaultTimeouts()
	if config.AppConfig.RPCTimeoutDefault > 0 {
		t.Default = config.AppConfig.RPCTimeoutDefault
	}
	if config.AppConfig.RPCTimeoutBulk > 0 {
		t.Bulk = config.AppConfig.RPCTimeoutBulk
	}
	if config.AppConfig.RPCTimeoutScan > 0 {
		t.Scan = config.AppConfig.RPCTimeoutScan
	}
	return t
}

func (t Timeouts) For(method string) time.Duration {
	switch Lookup(method).Timeout {
	case TimeoutScan:
		return t.Scan
	case TimeoutBulk:
		return t.Bulk
	default:
		return t.Default
	}
}

// Command is a single RPC method invocation. Params is either a positional
// array or a named parameter object.
type Command struct {
	Method string
	Params interface{}
}

// NewCommand builds a command with positional params
func NewCommand(method string, args ...interface{}) Command {
	if args == nil {
		args = []interface{}{}
	}
	return Command{Method: method, Params: args}
}

// NewNamedCommand builds a command with named params
func NewNamedCommand(method string, params map[string]interface{}) Command {
	if params == nil {
		params = map[string]interface{}{}
	}
	return Command{Method: method, Params: params}
}
