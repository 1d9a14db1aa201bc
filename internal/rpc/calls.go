package rpc

import (
	"context"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	log "github.com/sirupsen/logrus"
)

// UnspentOutput is one listunspent entry
type UnspentOutput struct {
	TxID          string  `json:"txid"`
	Vout          uint32  `json:"vout"`
	Address       *string `json:"address,omitempty"`
	Label         *string `json:"label,omitempty"`
	ScriptPubKey  string  `json:"scriptPubKey"`
	Amount        float64 `json:"amount"`
	Confirmations int64   `json:"confirmations"`
	RedeemScript  *string `json:"redeemScript,omitempty"`
	WitnessScript *string `json:"witnessScript,omitempty"`
	Spendable     bool    `json:"spendable"`
	Solvable      bool    `json:"solvable"`
	Reused        *bool   `json:"reused,omitempty"`
	Desc          *string `json:"desc,omitempty"`
	Safe          bool    `json:"safe"`
}

// ListUnspent lists every output of wallet, including unconfirmed and
// unsafe ones
func (c *Client) ListUnspent(ctx context.Context, wallet string) ([]UnspentOutput, error) {
	cmd := NewNamedCommand(MethodListUnspent, map[string]interface{}{
		"minconf":        0,
		"include_unsafe": true,
	})
	var utxos []UnspentOutput
	if err := c.Call(ctx, cmd, wallet, &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

func (c *Client) GetBlockchainInfo(ctx context.Context) (*btcjson.GetBlockChainInfoResult, error) {
	var info btcjson.GetBlockChainInfoResult
	if err := c.Call(ctx, NewCommand(MethodGetBlockchainInfo), "", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) ListWallets(ctx context.Context) ([]string, error) {
	var wallets []string
	if err := c.Call(ctx, NewCommand(MethodListWallets), "", &wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (c *Client) GetDescriptorInfo(ctx context.Context, desc string) (*btcjson.GetDescriptorInfoResult, error) {
	var info btcjson.GetDescriptorInfoResult
	if err := c.Call(ctx, NewCommand(MethodGetDescriptorInfo, desc), "", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DeriveAddresses derives addresses of desc, end 0 means the descriptor is
// not ranged. A descriptor without a
// checksum is completed through getdescriptorinfo and tried once more.
func (c *Client) DeriveAddresses(ctx context.Context, desc string, start, end int) ([]string, error) {
	addrs, err := c.deriveAddresses(ctx, desc, start, end)
	if err == nil || CauseOf(err) != CauseRPC || !strings.Contains(err.Error(), "Missing checksum") {
		return addrs, err
	}

	info, infoErr := c.GetDescriptorInfo(ctx, desc)
	if infoErr != nil {
		return nil, infoErr
	}
	log.Debugf("Descriptor checksum missing, retrying deriveaddresses with %s", info.Descriptor)
	return c.deriveAddresses(ctx, info.Descriptor, start, end)
}

func (c *Client) deriveAddresses(ctx context.Context, desc string, start, end int) ([]string, error) {
	cmd := NewCommand(MethodDeriveAddresses, desc)
	if end > 0 {
		cmd = NewCommand(MethodDeriveAddresses, desc, []int{start, end})
	}
	var addrs []string
	if err := c.Call(ctx, cmd, "", &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// NodeStatus is the health of the active node
type NodeStatus struct {
	Condition            string  `json:"condition"`
	Guidance             string  `json:"guidance"`
	Chain                string  `json:"chain,omitempty"`
	Blocks               int32   `json:"blocks,omitempty"`
	Headers              int32   `json:"headers,omitempty"`
	VerificationProgress float64 `json:"verification_progress,omitempty"`
	InitialBlockDownload bool    `json:"initial_block_download,omitempty"`
	Pruned               bool    `json:"pruned,omitempty"`
	Error                string  `json:"error,omitempty"`
}

// Status checks the active node with getblockchaininfo
func (c *Client) Status(ctx context.Context, classifier StatusClassifier) NodeStatus {
	if classifier == nil {
		classifier = DefaultClassifier{}
	}
	info, err := c.GetBlockchainInfo(ctx)
	cond := classifier.Classify(err)
	status := NodeStatus{
		Condition: cond.String(),
		Guidance:  Guidance(cond),
	}
	if err != nil {
		status.Error = err.Error()
		return status
	}
	status.Chain = info.Chain
	status.Blocks = info.Blocks
	status.Headers = info.Headers
	status.VerificationProgress = info.VerificationProgress
	status.InitialBlockDownload = info.InitialBlockDownload
	status.Pruned = info.Pruned
	return status
}
