// Package crypto protects API keys at rest. Each secret is sealed with
// AES-256-GCM under a key derived from a per-installation master key and a
// per-envelope random salt, so re-encrypting the same plaintext always yields
// a different envelope.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/hkdf"

	"provmgr/config/models"
	"provmgr/internal/logging"
)

const (
	keySize   = 32
	saltSize  = 16
	nonceSize = 12
	tagSize   = 16

	// EnvelopeSep separates the four hex-encoded envelope parts:
	// salt:iv:tag:ciphertext.
	EnvelopeSep = ":"

	envelopeParts = 4

	hkdfInfo = "provmgr api key encryption"
)

// Cipher encrypts and decrypts API key material with a single master key.
type Cipher struct {
	key       []byte
	keyPath   string
	persisted bool
}

// DefaultKeyPath returns the master key location under the user's config
// directory.
func DefaultKeyPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".provmgr", ".keys", "master.key")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "provmgr", ".keys", "master.key")
}

// New loads the master key from keyPath, creating and persisting a fresh
// 32-byte key when none exists. A failure to persist is not fatal: the cipher
// keeps the key in memory for the lifetime of the process, at the cost of
// losing previously encrypted values on restart.
func New(keyPath string) *Cipher {
	c := &Cipher{keyPath: keyPath}

	if data, err := os.ReadFile(keyPath); err == nil && len(data) == keySize {
		c.key = data
		c.persisted = true
		return c
	}

	c.key = make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, c.key); err != nil {
		// rand.Reader failing means no usable entropy source; encryption
		// stays disabled for this process.
		logging.Error("Crypto", err, "failed to generate master key")
		c.key = nil
		return c
	}

	if err := persistKey(keyPath, c.key); err != nil {
		logging.Warn("Crypto", "failed to persist master key to %s, continuing in-memory: %v", keyPath, err)
		return c
	}
	c.persisted = true
	return c
}

func persistKey(keyPath string, key []byte) error {
	if err := os.MkdirAll(filepath.Dir(keyPath), 0700); err != nil {
		return err
	}
	return os.WriteFile(keyPath, key, 0600)
}

// Persisted reports whether the master key survives a process restart.
func (c *Cipher) Persisted() bool {
	return c.persisted
}

// deriveKey expands the master key with the envelope salt into the actual
// AES key, so the master key is never used directly with any IV.
func (c *Cipher) deriveKey(salt []byte) ([]byte, error) {
	derived := make([]byte, keySize)
	r := hkdf.New(sha256.New, c.key, salt, []byte(hkdfInfo))
	if _, err := io.ReadFull(r, derived); err != nil {
		return nil, err
	}
	return derived, nil
}

// Encrypt seals a plaintext into a salt:iv:tag:ciphertext hex envelope.
// Empty input and any internal failure report ok=false; callers must
// tolerate a missing ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, bool) {
	if plaintext == "" || c.key == nil {
		return "", false
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		logging.Error("Crypto", err, "failed to generate salt")
		return "", false
	}
	iv := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		logging.Error("Crypto", err, "failed to generate iv")
		return "", false
	}

	key, err := c.deriveKey(salt)
	if err != nil {
		logging.Error("Crypto", err, "key derivation failed")
		return "", false
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		logging.Error("Crypto", err, "failed to create cipher")
		return "", false
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		logging.Error("Crypto", err, "failed to create GCM")
		return "", false
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ct, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	parts := []string{
		hex.EncodeToString(salt),
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ct),
	}
	return strings.Join(parts, EnvelopeSep), true
}

// Decrypt opens an envelope produced by Encrypt. Values that do not look
// like an envelope (no separator, or not exactly four hex parts) are legacy
// plaintext and are returned unchanged with ok=true. A well-formed envelope
// that fails authentication reports ok=false and no plaintext.
func (c *Cipher) Decrypt(value string) (string, bool) {
	if !strings.Contains(value, EnvelopeSep) {
		return value, true
	}

	parts := strings.Split(value, EnvelopeSep)
	if len(parts) != envelopeParts {
		return value, true
	}

	raw := make([][]byte, envelopeParts)
	for i, p := range parts {
		decoded, err := hex.DecodeString(p)
		if err != nil {
			// Contains the separator but is not a hex envelope; treat as
			// an unencrypted legacy value.
			return value, true
		}
		raw[i] = decoded
	}
	salt, iv, tag, ct := raw[0], raw[1], raw[2], raw[3]

	if c.key == nil || len(iv) != nonceSize || len(tag) != tagSize {
		return "", false
	}

	key, err := c.deriveKey(salt)
	if err != nil {
		return "", false
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return "", false
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", false
	}

	plaintext, err := gcm.Open(nil, iv, append(ct, tag...), nil)
	if err != nil {
		return "", false
	}
	return string(plaintext), true
}

// EncryptDocument returns a copy of doc with every provider's apiKey sealed.
// Providers without an apiKey pass through untouched.
func (c *Cipher) EncryptDocument(doc *models.Document) *models.Document {
	out := doc.Clone()
	for id, p := range out.Provider {
		if p.Options.APIKey == "" {
			continue
		}
		env, ok := c.Encrypt(p.Options.APIKey)
		if !ok {
			logging.Warn("Crypto", "failed to encrypt api key for provider %s, keeping value as-is", id)
			continue
		}
		p.Options.APIKey = env
		out.Provider[id] = p
	}
	return out
}

// DecryptDocument returns a copy of doc with every provider's apiKey opened.
// An envelope that fails authentication leaves the key empty rather than
// surfacing garbage.
func (c *Cipher) DecryptDocument(doc *models.Document) *models.Document {
	out := doc.Clone()
	for id, p := range out.Provider {
		if p.Options.APIKey == "" {
			continue
		}
		plain, ok := c.Decrypt(p.Options.APIKey)
		if !ok {
			logging.Warn("Crypto", "failed to decrypt api key for provider %s", id)
			plain = ""
		}
		p.Options.APIKey = plain
		out.Provider[id] = p
	}
	return out
}
