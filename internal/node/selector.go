package node

import (
	"context"
	"errors"
	"fmt"

	"github.com/goatnetwork/node-bridge/internal/cipher"
	"github.com/goatnetwork/node-bridge/internal/db"
	"github.com/goatnetwork/node-bridge/internal/state"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoActiveNode      = errors.New("no active Bitcoin Core node")
	ErrCredentialDecrypt = errors.New("error decrypting node credentials")
	ErrCredentialEncrypt = errors.New("error encrypting node credentials")
	ErrEmptyCredentials  = errors.New("either the hostname, rpcuser or rpcpassword is empty")
	ErrStoreUnavailable  = errors.New("node store unavailable")
	ErrNodeNotFound      = state.ErrNodeNotFound
)

// Store is the part of the state the selector reads and mutates
type Store interface {
	ListNodes() ([]db.Node, error)
	GetNode(id string) (*db.Node, error)
	AddNode(node *db.Node, activate bool) error
	ActivateNode(id string) error
	UpdateNodeCredentials(id string, label *string, address, user, password []byte) error
	DeleteNode(id string) error
}

// Selector resolves the active node and owns the node lifecycle
type Selector struct {
	store  Store
	cipher cipher.Cipher
	bus    *state.EventBus
}

func NewSelector(store Store, c cipher.Cipher, bus *state.EventBus) *Selector {
	return &Selector{
		store:  store,
		cipher: c,
		bus:    bus,
	}
}

// GetActiveNode returns the active node with its fields still encrypted.
// Records without an active flag are not a fallback.
func (s *Selector) GetActiveNode(ctx context.Context) (*db.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	nodes, err := s.store.ListNodes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	for i := range nodes {
		if nodes[i].IsActive {
			return &nodes[i], nil
		}
	}
	return nil, ErrNoActiveNode
}

// Decrypt opens the encrypted fields of n, a failed or empty field is a
// credential error
func (s *Selector) Decrypt(n *db.Node) (Credentials, error) {
	fields := [][]byte{n.Address, n.RPCUser, n.RPCPassword}
	plain := make([]string, len(fields))
	for i, field := range fields {
		value, err := s.cipher.Decrypt(field)
		if err != nil {
			log.Warnf("Selector failed to decrypt field %d of node %s: %v", i, n.ID, err)
			return Credentials{}, ErrCredentialDecrypt
		}
		if len(value) == 0 {
			return Credentials{}, ErrCredentialDecrypt
		}
		plain[i] = string(value)
	}

	return Credentials{
		NodeID:   n.ID,
		Label:    n.Label,
		Scheme:   n.Scheme,
		Host:     plain[0],
		User:     plain[1],
		Password: plain[2],
	}, nil
}

// ActiveCredentials resolves and decrypts the active node
func (s *Selector) ActiveCredentials(ctx context.Context) (Credentials, error) {
	n, err := s.GetActiveNode(ctx)
	if err != nil {
		return Credentials{}, err
	}
	return s.Decrypt(n)
}

// AddNode encrypts and stores a node and makes it the active one
func (s *Selector) AddNode(label, scheme, host, user, password string) (*db.Node, error) {
	if host == "" || user == "" || password == "" {
		return nil, ErrEmptyCredentials
	}
	if label == "" {
		label = db.NODE_DEFAULT_LABEL
	}
	if scheme == "" {
		scheme = db.NODE_SCHEME_HTTP
	}

	encrypted, err := s.encrypt(host, user, password)
	if err != nil {
		return nil, err
	}

	n := &db.Node{
		ID:          uuid.New().String(),
		Label:       label,
		Scheme:      scheme,
		Address:     encrypted[0],
		RPCUser:     encrypted[1],
		RPCPassword: encrypted[2],
	}
	if err := s.store.AddNode(n, true); err != nil {
		return nil, fmt.Errorf("error saving your node: %w", err)
	}

	log.Infof("Selector added node %s (%s)", n.ID, label)
	s.bus.Publish(state.NodeActivated, n.ID)
	return n, nil
}

// AddFromURI imports a node from a connection uri, see ParseConnectURI
func (s *Selector) AddFromURI(uri string) (*db.Node, error) {
	cu, err := ParseConnectURI(uri)
	if err != nil {
		return nil, err
	}
	return s.AddNode(cu.Label, cu.Scheme, cu.Host, cu.User, cu.Password)
}

// Activate makes id the only active node
func (s *Selector) Activate(id string) error {
	if err := s.store.ActivateNode(id); err != nil {
		return err
	}
	s.bus.Publish(state.NodeActivated, id)
	return nil
}

// UpdateCredentials re-encrypts the given fields, empty strings keep the
// stored value
func (s *Selector) UpdateCredentials(id, label, host, user, password string) error {
	var sealed [3][]byte
	for i, value := range []string{host, user, password} {
		if value == "" {
			continue
		}
		out, err := s.cipher.Encrypt([]byte(value))
		if err != nil {
			return ErrCredentialEncrypt
		}
		sealed[i] = out
	}

	var labelPtr *string
	if label != "" {
		labelPtr = &label
	}
	return s.store.UpdateNodeCredentials(id, labelPtr, sealed[0], sealed[1], sealed[2])
}

func (s *Selector) Delete(id string) error {
	if err := s.store.DeleteNode(id); err != nil {
		return err
	}
	s.bus.Publish(state.NodeDeleted, id)
	return nil
}

func (s *Selector) ListNodes() ([]db.Node, error) {
	return s.store.ListNodes()
}

func (s *Selector) GetNode(id string) (*db.Node, error) {
	return s.store.GetNode(id)
}

func (s *Selector) encrypt(values ...string) ([][]byte, error) {
	out := make([][]byte, len(values))
	for i, value := range values {
		sealed, err := s.cipher.Encrypt([]byte(value))
		if err != nil {
			log.Errorf("Selector failed to encrypt node credentials: %v", err)
			return nil, ErrCredentialEncrypt
		}
		out[i] = sealed
	}
	return out, nil
}
