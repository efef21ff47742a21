// Package fieldcrypt encrypts individual PHI columns with AES-256-GCM.
//
// Ciphertext is stored as "enc:v<version>:<base64(nonce|sealed)>". Values
// without that prefix are treated as legacy plaintext and returned unchanged
// by Decrypt.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

const prefix = "enc:v"

var (
	ErrDisabled       = errors.New("fieldcrypt: encryption is disabled")
	ErrUnknownVersion = errors.New("fieldcrypt: no key for version")
	ErrMalformed      = errors.New("fieldcrypt: malformed ciphertext")
)

type Cipher struct {
	mu       sync.RWMutex
	version  int
	current  cipher.AEAD
	previous map[int]cipher.AEAD
}

// NewCipher builds a cipher around a 32 byte key. A nil key yields a
// disabled cipher that stores plaintext as-is.
func NewCipher(key []byte, version int) (*Cipher, error) {
	c := &Cipher{version: version, previous: make(map[int]cipher.AEAD)}
	if key == nil {
		return c, nil
	}
	if version < 1 {
		return nil, fmt.Errorf("fieldcrypt: key version must be >= 1, got %d", version)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	c.current = aead
	return c, nil
}

// NewCipherFromHex is NewCipher for hex encoded keys. An empty string
// yields a disabled cipher.
func NewCipherFromHex(hexKey string, version int) (*Cipher, error) {
	if hexKey == "" {
		return NewCipher(nil, version)
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: decode key: %w", err)
	}
	return NewCipher(key, version)
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("fieldcrypt: key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("fieldcrypt: create GCM: %w", err)
	}
	return aead, nil
}

// AddPreviousKey registers a retired key so rows written under it still
// decrypt.
func (c *Cipher) AddPreviousKey(key []byte, version int) error {
	if version == c.version {
		return fmt.Errorf("fieldcrypt: version %d is the active key", version)
	}
	aead, err := newAEAD(key)
	if err != nil {
		return fmt.Errorf("fieldcrypt: previous key v%d: %w", version, err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previous[version] = aead
	return nil
}

func (c *Cipher) AddPreviousHexKey(hexKey string, version int) error {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return fmt.Errorf("fieldcrypt: decode previous key v%d: %w", version, err)
	}
	return c.AddPreviousKey(key, version)
}

func (c *Cipher) Enabled() bool {
	return c != nil && c.current != nil
}

func (c *Cipher) Version() int {
	return c.version
}

// Encrypt seals plaintext under the active key. Empty input stays empty so
// optional columns do not carry ciphertext for nothing.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	if plaintext == "" || !c.Enabled() {
		return plaintext, nil
	}

	nonce := make([]byte, c.current.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("fieldcrypt: generate nonce: %w", err)
	}
	sealed := c.current.Seal(nonce, nonce, []byte(plaintext), nil)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(strconv.Itoa(c.version))
	b.WriteByte(':')
	b.WriteString(base64.StdEncoding.EncodeToString(sealed))
	return b.String(), nil
}

// Decrypt opens a value produced by Encrypt. Anything that is not
// ciphertext is returned unchanged.
func (c *Cipher) Decrypt(value string) (string, error) {
	if !IsCiphertext(value) {
		return value, nil
	}
	if !c.Enabled() {
		return "", ErrDisabled
	}

	version, payload, err := split(value)
	if err != nil {
		return "", err
	}

	aead, err := c.keyFor(version)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	nonceSize := aead.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("%w: too short", ErrMalformed)
	}
	plaintext, err := aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("fieldcrypt: open: %w", err)
	}
	return string(plaintext), nil
}

// NeedsReEncryption reports whether value was sealed under a retired key or
// is still plaintext.
func (c *Cipher) NeedsReEncryption(value string) bool {
	if value == "" || !c.Enabled() {
		return false
	}
	if !IsCiphertext(value) {
		return true
	}
	version, _, err := split(value)
	return err == nil && version != c.version
}

func (c *Cipher) keyFor(version int) (cipher.AEAD, error) {
	if version == c.version {
		return c.current, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	aead, ok := c.previous[version]
	if !ok {
		return nil, fmt.Errorf("%w %d", ErrUnknownVersion, version)
	}
	return aead, nil
}

// IsCiphertext reports whether s carries the versioned ciphertext prefix.
func IsCiphertext(s string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	_, _, err := split(s)
	return err == nil
}

func split(s string) (int, string, error) {
	rest := strings.TrimPrefix(s, prefix)
	ver, payload, ok := strings.Cut(rest, ":")
	if !ok || ver == "" || payload == "" {
		return 0, "", ErrMalformed
	}
	version, err := strconv.Atoi(ver)
	if err != nil || version < 1 {
		return 0, "", ErrMalformed
	}
	return version, payload, nil
}
