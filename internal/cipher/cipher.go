package cipher

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	keySize   = 32
	nonceSize = 24
	saltSize  = 16

	// scrypt cost, each salt is derived once per process
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

var (
	ErrCiphertextTooShort = errors.New("ciphertext too short")
	ErrDecryptFailed      = errors.New("decryption failed")
)

// Cipher encrypts and decrypts opaque payloads, a failed Decrypt never
// falls back to returning the input
type Cipher interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// SecretBox seals payloads with NaCl secretbox under a key derived from a
// passphrase. Output layout is salt | nonce | box.
type SecretBox struct {
	passphrase []byte
	salt       [saltSize]byte
	key        [keySize]byte

	// keys derived for salts of earlier processes
	mu   sync.Mutex
	keys map[[saltSize]byte][keySize]byte
}

var _ Cipher = (*SecretBox)(nil)

func NewSecretBox(passphrase string) (*SecretBox, error) {
	sb := &SecretBox{
		passphrase: []byte(passphrase),
		keys:       make(map[[saltSize]byte][keySize]byte),
	}
	if _, err := io.ReadFull(rand.Reader, sb.salt[:]); err != nil {
		return nil, fmt.Errorf("failed to read salt: %w", err)
	}
	key, err := deriveKey(sb.passphrase, sb.salt[:])
	if err != nil {
		return nil, err
	}
	sb.key = key
	return sb, nil
}

func (sb *SecretBox) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to read nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+nonceSize+len(plaintext)+secretbox.Overhead)
	out = append(out, sb.salt[:]...)
	out = append(out, nonce[:]...)
	return secretbox.Seal(out, plaintext, &nonce, &sb.key), nil
}

func (sb *SecretBox) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < saltSize+nonceSize+secretbox.Overhead {
		return nil, ErrCiphertextTooShort
	}

	var salt [saltSize]byte
	copy(salt[:], ciphertext[:saltSize])
	key, err := sb.keyFor(salt)
	if err != nil {
		return nil, err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], ciphertext[saltSize:saltSize+nonceSize])

	plaintext, ok := secretbox.Open(nil, ciphertext[saltSize+nonceSize:], &nonce, &key)
	if !ok {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}

// keyFor returns the key for salt, deriving and remembering it when the
// payload was sealed by an earlier process
func (sb *SecretBox) keyFor(salt [saltSize]byte) ([keySize]byte, error) {
	if salt == sb.salt {
		return sb.key, nil
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()
	if key, ok := sb.keys[salt]; ok {
		return key, nil
	}
	key, err := deriveKey(sb.passphrase, salt[:])
	if err != nil {
		return key, err
	}
	sb.keys[salt] = key
	return key, nil
}

func (sb *SecretBox) derivedSalts() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return len(sb.keys)
}

func deriveKey(passphrase, salt []byte) ([keySize]byte, error) {
	var key [keySize]byte
	derived, err := scrypt.Key(passphrase, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return key, fmt.Errorf("failed to derive key: %w", err)
	}
	copy(key[:], derived)
	return key, nil
}
