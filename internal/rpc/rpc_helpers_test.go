package rpc

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"syscall"
	"testing"

	"github.com/goatnetwork/node-bridge/internal/node"
)

type recordedRequest struct {
	Path        string
	User        string
	Password    string
	ContentType string
	Body        requestBody
}

// fakeNode is a bitcoind stand in that records every request
type fakeNode struct {
	srv      *httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
	handler  func(req recordedRequest) (int, string)
}

func newFakeNode(t *testing.T, handler func(req recordedRequest) (int, string)) *fakeNode {
	f := &fakeNode{handler: handler}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, _ := r.BasicAuth()
		raw, _ := io.ReadAll(r.Body)
		var body requestBody
		_ = json.Unmarshal(raw, &body)
		rec := recordedRequest{
			Path:        r.URL.Path,
			User:        user,
			Password:    pass,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()

		status, resp := f.handler(rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(resp))
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNode) creds() node.Credentials {
	return node.Credentials{
		NodeID:   "node-1",
		Label:    "Test node",
		Scheme:   "http",
		Host:     f.srv.Listener.Addr().String(),
		User:     "alice",
		Password: "s3cret pass",
	}
}

func (f *fakeNode) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeNode) last() recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeNode) client(t *testing.T) *Client {
	t.Helper()
	return NewClient(staticSource{creds: f.creds()}, NewTransportSelectorWith(f.srv.Client(), nil), DefaultTimeouts(), 0)
}

func okResult(result string) (int, string) {
	return http.StatusOK, `{"result":` + result + `,"error":null,"id":"x"}`
}

type staticSource struct {
	creds node.Credentials
	err   error
}

func (s staticSource) ActiveCredentials(ctx context.Context) (node.Credentials, error) {
	return s.creds, s.err
}

// flakyDoer fails the first failures calls, or every call when failures < 0
type flakyDoer struct {
	mu       sync.Mutex
	failures int
	calls    int
	next     Doer
	onCall   func(call int)
}

func (d *flakyDoer) Do(req *http.Request) (*http.Response, error) {
	d.mu.Lock()
	d.calls++
	call := d.calls
	fail := d.failures < 0 || call <= d.failures
	d.mu.Unlock()

	if d.onCall != nil {
		d.onCall(call)
	}
	if fail {
		return nil, &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	}
	return d.next.Do(req)
}

func (d *flakyDoer) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}
