// Package config implements the configuration store: the single source of
// truth for the provider document on disk, with a short-lived read cache and
// transparent API key encryption.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/internal/crypto"
	"provmgr/internal/logging"
)

// CacheTTL bounds how long a cached read is served without touching disk.
const CacheTTL = 3 * time.Second

// Store reads and writes the provider document. The cached document is owned
// exclusively by the store; every read hands out a deep copy.
type Store struct {
	path   string
	cipher *crypto.Cipher

	mu       sync.Mutex
	cache    *models.Document
	cachedAt time.Time
}

// NewStore creates a store backed by the JSON file at path. API keys are
// encrypted through cipher before anything touches disk.
func NewStore(path string, cipher *crypto.Cipher) *Store {
	return &Store{path: path, cipher: cipher}
}

// DefaultConfigPath returns the config file location, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".provmgr", "config.json")
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "provmgr", "config.json")
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Read returns the current document with API keys decrypted. When useCache is
// true and the cache is younger than CacheTTL, the cached document is served.
// A missing or unparsable file is not an error: it yields an empty document.
func (s *Store) Read(useCache bool) *models.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	if useCache && s.cache != nil && time.Since(s.cachedAt) < CacheTTL {
		return s.cache.Clone()
	}

	doc := s.cipher.DecryptDocument(s.readDisk())
	s.cache = doc
	s.cachedAt = time.Now()
	return doc.Clone()
}

// readDisk loads and parses the config file, degrading to an empty document
// on any failure.
func (s *Store) readDisk() *models.Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("Config", "failed to read %s, using empty config: %v", s.path, err)
		}
		return models.NewDocument()
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logging.Warn("Config", "failed to parse %s, using empty config: %v", s.path, err)
		return models.NewDocument()
	}
	if doc.Provider == nil {
		doc.Provider = make(map[string]models.ProviderConfig)
	}
	return &doc
}

// Write persists doc as pretty-printed JSON with API keys encrypted, replacing
// the whole file atomically. On success the plaintext document becomes the new
// cache. Write never panics or returns an error; it reports failure as false.
func (s *Store) Write(doc *models.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(doc)
}

func (s *Store) writeLocked(doc *models.Document) bool {
	if err := storage.EnsureDir(filepath.Dir(s.path)); err != nil {
		logging.Error("Config", err, "failed to create config directory")
		return false
	}

	encrypted := s.cipher.EncryptDocument(doc)
	data, err := json.MarshalIndent(encrypted, "", "  ")
	if err != nil {
		logging.Error("Config", err, "failed to serialize config")
		return false
	}

	if err := storage.AtomicWriteFile(s.path, data, 0600); err != nil {
		logging.Error("Config", err, "failed to write config file")
		return false
	}

	s.cache = doc.Clone()
	s.cachedAt = time.Now()
	return true
}

// GetProvider returns the named provider entry. The read bypasses the cache
// so callers always see the latest on-disk state.
func (s *Store) GetProvider(id string) (models.ProviderConfig, bool) {
	doc := s.Read(false)
	p, ok := doc.Provider[id]
	return p, ok
}

// AddOrUpdateProvider merges one provider entry into the document and writes
// the whole file back. The preceding read bypasses the cache to avoid
// clobbering an external edit with a stale snapshot.
func (s *Store) AddOrUpdateProvider(id string, cfg models.ProviderConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.cipher.DecryptDocument(s.readDisk())
	doc.Provider[id] = cfg.Clone()
	return s.writeLocked(doc)
}

// DeleteProvider removes one provider entry. It returns false when the id is
// absent, leaving the document untouched.
func (s *Store) DeleteProvider(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.cipher.DecryptDocument(s.readDisk())
	if _, ok := doc.Provider[id]; !ok {
		return false
	}
	delete(doc.Provider, id)
	return s.writeLocked(doc)
}

// ClearCache forces the next Read to hit disk.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = nil
	s.cachedAt = time.Time{}
}
