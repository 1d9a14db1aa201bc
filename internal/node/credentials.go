package node

import (
	"net"
	"strings"
)

// Credentials is the decrypted identity of a node, built once per active
// node resolution and handed to the request builder by value
type Credentials struct {
	NodeID   string
	Label    string
	Scheme   string
	Host     string
	User     string
	Password string
}

// IsOnion reports whether Host is only reachable through Tor
func (c Credentials) IsOnion() bool {
	host := c.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return strings.HasSuffix(strings.ToLower(host), ".onion")
}

// HTTPScheme maps the stored connection scheme to the one spoken on the wire
func (c Credentials) HTTPScheme() string {
	if c.Scheme == "https" {
		return "https"
	}
	return "http"
}

func (c Credentials) String() string {
	return c.Label + " (" + c.Host + ")"
}
