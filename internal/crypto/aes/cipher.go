// Package aes provides AES-CBC encryption of secure values using standard crypto libraries.
//
// Cipher text is stored as "AES:<base64 iv>:<base64 data>" with PKCS#7 padding.
package aes

import (
	"bytes"
	stdaes "crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	crerrors "github.com/mrz1836/configrepo/internal/errors"
)

// envelopePrefix marks a value produced by this cipher.
const envelopePrefix = "AES:"

// DefaultKeySize is the size of generated keys (AES-128).
const DefaultKeySize = 16

// KeyManager loads the cipher key from a hex-encoded key file.
type KeyManager struct {
	keyPath string
	mu      sync.RWMutex
	key     []byte
}

// NewKeyManager creates a KeyManager reading the key at keyPath.
func NewKeyManager(keyPath string) *KeyManager {
	return &KeyManager{keyPath: keyPath}
}

// Path returns the key file location.
func (km *KeyManager) Path() string {
	return km.keyPath
}

// Load loads the key from disk, generating one if it doesn't exist.
func (km *KeyManager) Load() error {
	km.mu.Lock()
	defer km.mu.Unlock()

	if km.key != nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(km.keyPath), 0o700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	data, err := os.ReadFile(km.keyPath)
	if os.IsNotExist(err) {
		key := make([]byte, DefaultKeySize)
		if _, genErr := rand.Read(key); genErr != nil {
			return fmt.Errorf("generating cipher key: %w", genErr)
		}
		if writeErr := os.WriteFile(km.keyPath, []byte(hex.EncodeToString(key)), 0o600); writeErr != nil {
			return fmt.Errorf("saving cipher key: %w", writeErr)
		}
		km.key = key
		return nil
	} else if err != nil {
		return fmt.Errorf("reading cipher key: %w", err)
	}

	decoded, err := hex.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("decoding cipher key hex: %w", err)
	}
	if err := validateKeySize(len(decoded)); err != nil {
		return err
	}

	km.key = decoded
	return nil
}

// Exists checks if the key file exists on disk.
func (km *KeyManager) Exists() bool {
	_, err := os.Stat(km.keyPath)
	return err == nil
}

// NewCipher creates a Cipher using the loaded key.
func (km *KeyManager) NewCipher() (*Cipher, error) {
	km.mu.RLock()
	defer km.mu.RUnlock()

	if km.key == nil {
		return nil, crerrors.ErrCipherKeyNotLoaded
	}
	return NewCipher(km.key)
}

func validateKeySize(n int) error {
	switch n {
	case 16, 24, 32:
		return nil
	default:
		return fmt.Errorf("%w: expected 16, 24 or 32 bytes, got %d", crerrors.ErrInvalidKeySize, n)
	}
}

// Cipher implements the crypto.Cipher interface with AES-CBC.
// It is safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// NewCipher creates a Cipher from a raw key.
func NewCipher(key []byte) (*Cipher, error) {
	if err := validateKeySize(len(key)); err != nil {
		return nil, err
	}
	block, err := stdaes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating aes cipher: %w", err)
	}
	return &Cipher{block: block}, nil
}

// Encrypt encrypts plainText with a random IV.
func (c *Cipher) Encrypt(plainText string) (string, error) {
	iv := make([]byte, stdaes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	data := pad([]byte(plainText), stdaes.BlockSize)
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(data, data)

	return envelopePrefix + base64.StdEncoding.EncodeToString(iv) + ":" +
		base64.StdEncoding.EncodeToString(data), nil
}

// Decrypt decrypts an "AES:" envelope.
func (c *Cipher) Decrypt(cipherText string) (string, error) {
	if !IsEncrypted(cipherText) {
		return "", fmt.Errorf("%w: missing %q prefix", crerrors.ErrInvalidCipherText, envelopePrefix)
	}

	parts := strings.Split(strings.TrimPrefix(cipherText, envelopePrefix), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: expected iv and data", crerrors.ErrInvalidCipherText)
	}

	iv, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil || len(iv) != stdaes.BlockSize {
		return "", fmt.Errorf("%w: bad iv", crerrors.ErrInvalidCipherText)
	}
	data, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil || len(data) == 0 || len(data)%stdaes.BlockSize != 0 {
		return "", fmt.Errorf("%w: bad data", crerrors.ErrInvalidCipherText)
	}

	plain := make([]byte, len(data))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(plain, data)

	unpadded, err := unpad(plain, stdaes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

// IsEncrypted reports whether value looks like an envelope produced by Encrypt.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, envelopePrefix)
}

func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", crerrors.ErrInvalidCipherText)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", crerrors.ErrInvalidCipherText)
		}
	}
	return data[:len(data)-n], nil
}
