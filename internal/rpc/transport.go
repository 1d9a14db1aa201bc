package rpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/btcsuite/go-socks/socks"
	"github.com/goatnetwork/node-bridge/internal/node"
	log "github.com/sirupsen/logrus"
)

var ErrTorUnavailable = errors.New("onion node requires a Tor proxy, set TOR_PROXY")

// Doer sends one HTTP request
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Transports picks the Doer used to reach a node
type Transports interface {
	Select(creds node.Credentials) (Doer, error)
}

// TransportSelector routes .onion hosts through the Tor SOCKS proxy and
// everything else through a direct client. Both clients are shared.
type TransportSelector struct {
	direct Doer
	tor    Doer
}

// NewTransportSelector builds the shared clients. An empty torProxy leaves
// onion nodes unreachable.
func NewTransportSelector(torProxy string) *TransportSelector {
	ts := &TransportSelector{
		direct: &http.Client{Transport: newHTTPTransport(nil)},
	}
	if torProxy != "" {
		proxy := &socks.Proxy{Addr: torProxy}
		ts.tor = &http.Client{Transport: newHTTPTransport(socksDialer(proxy))}
		log.Infof("Tor transport enabled via %s", torProxy)
	}
	return ts
}

// NewTransportSelectorWith is used when the clients are provided by the caller
func NewTransportSelectorWith(direct, tor Doer) *TransportSelector {
	return &TransportSelector{direct: direct, tor: tor}
}

func (ts *TransportSelector) Select(creds node.Credentials) (Doer, error) {
	if !creds.IsOnion() {
		return ts.direct, nil
	}
	if ts.tor == nil {
		return nil, ErrTorUnavailable
	}
	return ts.tor, nil
}

type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

func newHTTPTransport(dial dialFunc) *http.Transport {
	t := &http.Transport{
		MaxIdleConns:        16,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}
	if dial != nil {
		t.DialContext = dial
	} else {
		t.DialContext = (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext
		t.Proxy = http.ProxyFromEnvironment
	}
	return t
}

// socksDialer adapts the blocking socks dial to a context
func socksDialer(proxy *socks.Proxy) dialFunc {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		type result struct {
			conn net.Conn
			err  error
		}
		ch := make(chan result, 1)
		go func() {
			conn, err := proxy.Dial(network, addr)
			ch <- result{conn, err}
		}()
		select {
		case r := <-ch:
			return r.conn, r.err
		case <-ctx.Done():
			go func() {
				if r := <-ch; r.conn != nil {
					r.conn.Close()
				}
			}()
			return nil, ctx.Err()
		}
	}
}
