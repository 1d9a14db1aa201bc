package rpc

import (
	"context"
	"errors"
	"net"
	"strings"
	"syscall"
)

// NodeCondition is the user facing reading of a failed call
type NodeCondition int

const (
	ConditionOK NodeCondition = iota
	ConditionUnknown
	ConditionWarmingUp
	ConditionOffline
	ConditionUnresponsive
	ConditionBusy
	ConditionBadCredentials
	ConditionNotWhitelisted
	ConditionNotConfigured
)

func (c NodeCondition) String() string {
	switch c {
	case ConditionOK:
		return "ok"
	case ConditionWarmingUp:
		return "warming_up"
	case ConditionOffline:
		return "offline"
	case ConditionUnresponsive:
		return "unresponsive"
	case ConditionBusy:
		return "busy"
	case ConditionBadCredentials:
		return "bad_credentials"
	case ConditionNotWhitelisted:
		return "not_whitelisted"
	case ConditionNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

// StatusClassifier turns a call error into a node condition
type StatusClassifier interface {
	Classify(err error) NodeCondition
}

// DefaultClassifier uses the error cause and RPC code first and falls back
// to matching well known bitcoind and transport messages
type DefaultClassifier struct{}

var _ StatusClassifier = DefaultClassifier{}

func (DefaultClassifier) Classify(err error) NodeCondition {
	if err == nil {
		return ConditionOK
	}

	var e *Error
	if errors.As(err, &e) {
		switch e.Cause {
		case CauseNoActiveNode, CauseCredentialDecrypt:
			return ConditionNotConfigured
		case CauseAuth:
			return ConditionBadCredentials
		case CauseForbidden:
			return ConditionNotWhitelisted
		case CauseUndecodable:
			return ConditionBusy
		case CauseRPC:
			if e.Code == ErrCodeInWarmup {
				return ConditionWarmingUp
			}
		case CauseTransport:
			if cond := transportCondition(e.Err); cond != ConditionUnknown {
				return cond
			}
		}
	}
	return messageCondition(err.Error())
}

func transportCondition(err error) NodeCondition {
	if err == nil {
		return ConditionUnknown
	}
	if errors.Is(err, ErrTorUnavailable) {
		return ConditionNotConfigured
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ConditionUnresponsive
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ConditionUnresponsive
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ConditionOffline
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ConditionOffline
	}
	return ConditionUnknown
}

var messageConditions = []struct {
	needle string
	cond   NodeCondition
}{
	{"Loading block index", ConditionWarmingUp},
	{"Verifying", ConditionWarmingUp},
	{"Rewinding", ConditionWarmingUp},
	{"Rescanning", ConditionWarmingUp},
	{"Loading wallet", ConditionWarmingUp},
	{"Could not connect to the server", ConditionOffline},
	{"connection refused", ConditionOffline},
	{"The Internet connection appears to be offline", ConditionOffline},
	{"timed out", ConditionUnresponsive},
	{"deadline exceeded", ConditionUnresponsive},
	{"Unable to decode the response", ConditionBusy},
	{"rpc credentials are incorrect", ConditionBadCredentials},
	{"rpcwhitelist", ConditionNotWhitelisted},
}

func messageCondition(msg string) NodeCondition {
	for _, m := range messageConditions {
		if strings.Contains(msg, m.needle) {
			return m.cond
		}
	}
	return ConditionUnknown
}

// Guidance is the message shown to the user for a condition
func Guidance(cond NodeCondition) string {
	switch cond {
	case ConditionOK:
		return "Node is connected."
	case ConditionWarmingUp:
		return "Your node is still getting warmed up! Wait 15 seconds before trying again."
	case ConditionOffline:
		return "Looks like your node is not on, or the address is wrong. " +
			"Make sure Bitcoin Core is running and that the host and port are correct."
	case ConditionUnresponsive:
		return "The node did not respond in time. If you are connecting over Tor it can take a while, " +
			"otherwise your node may be busy or unreachable."
	case ConditionBusy:
		return "Your node returned a response we could not read, it may be busy. Try again in a moment."
	case ConditionBadCredentials:
		return msgAuth
	case ConditionNotWhitelisted:
		return "The command is not allowed by your rpcwhitelist, add it to your bitcoin.conf and restart Bitcoin Core."
	case ConditionNotConfigured:
		return "No usable node is configured. Add a node and make it active."
	default:
		return "Unknown error connecting to your node."
	}
}
