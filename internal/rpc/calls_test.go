package rpc

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUnspent(t *testing.T) {
	f := newFakeNode(t, func(req recordedRequest) (int, string) {
		return okResult(`[{"txid":"aa","vout":1,"address":"bcrt1qtest","scriptPubKey":"0014ab","amount":0.5,
			"confirmations":3,"spendable":true,"solvable":true,"safe":true,"desc":"wpkh(...)#abc"}]`)
	})

	utxos, err := f.client(t).ListUnspent(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, utxos, 1)
	assert.Equal(t, "aa", utxos[0].TxID)
	assert.Equal(t, uint32(1), utxos[0].Vout)
	assert.Equal(t, 0.5, utxos[0].Amount)
	require.NotNil(t, utxos[0].Address)
	assert.Equal(t, "bcrt1qtest", *utxos[0].Address)
	assert.Nil(t, utxos[0].Label)
	assert.Nil(t, utxos[0].Reused)

	req := f.last()
	assert.Equal(t, "/wallet/default", req.Path)
	assert.Equal(t, map[string]interface{}{"minconf": float64(0), "include_unsafe": true}, req.Body.Params)
}

func TestDeriveAddressesChecksumRetry(t *testing.T) {
	const desc = "wpkh([d34db33f/84h/0h/0h]xpub6DJ2dNUysrn5Vt36jH2KLBT2i1auw1tTSSomg8PhqNiUtx8QX2SvC9nrHu81fT41fvDUnhMjEzQgXnQjKEu3oaqMSzhSrHMxyyoEAmUHQbY/0/*)"
	f := newFakeNode(t, func(req recordedRequest) (int, string) {
		params, _ := req.Body.Params.([]interface{})
		switch req.Body.Method {
		case MethodDeriveAddresses:
			if !strings.Contains(params[0].(string), "#") {
				return http.StatusInternalServerError, `{"result":null,"error":{"code":-5,"message":"Missing checksum"}}`
			}
			return okResult(`["bc1qfirst","bc1qsecond"]`)
		case MethodGetDescriptorInfo:
			return okResult(`{"descriptor":"` + params[0].(string) + `#3kqvmz9n","checksum":"3kqvmz9n","isrange":true,"issolvable":true,"hasprivatekeys":false}`)
		}
		return http.StatusNotFound, ""
	})

	addrs, err := f.client(t).DeriveAddresses(context.Background(), desc, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"bc1qfirst", "bc1qsecond"}, addrs)
	require.Equal(t, 3, f.count())

	f.mu.Lock()
	methods := []string{f.requests[0].Body.Method, f.requests[1].Body.Method, f.requests[2].Body.Method}
	retried := f.requests[2].Body.Params.([]interface{})
	f.mu.Unlock()
	assert.Equal(t, []string{MethodDeriveAddresses, MethodGetDescriptorInfo, MethodDeriveAddresses}, methods)
	assert.Equal(t, desc+"#3kqvmz9n", retried[0])
	assert.Equal(t, []interface{}{float64(0), float64(1)}, retried[1])
}

func TestDeriveAddressesOtherErrorNotRetried(t *testing.T) {
	f := newFakeNode(t, func(req recordedRequest) (int, string) {
		return http.StatusInternalServerError, `{"result":null,"error":{"code":-5,"message":"Invalid descriptor"}}`
	})

	_, err := f.client(t).DeriveAddresses(context.Background(), "garbage", 0, 0)
	require.Error(t, err)
	assert.Equal(t, "Invalid descriptor", err.Error())
	assert.Equal(t, 1, f.count())
	assert.Len(t, f.last().Body.Params, 1, "unranged call sends only the descriptor")
}

func TestListWalletsAndBlockchainInfo(t *testing.T) {
	f := newFakeNode(t, func(req recordedRequest) (int, string) {
		switch req.Body.Method {
		case MethodListWallets:
			return okResult(`["","default"]`)
		default:
			return okResult(`{"chain":"main","blocks":850000,"headers":850001,"initialblockdownload":false}`)
		}
	})
	c := f.client(t)

	wallets, err := c.ListWallets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"", "default"}, wallets)

	info, err := c.GetBlockchainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", info.Chain)
	assert.Equal(t, int32(850000), info.Blocks)
}
