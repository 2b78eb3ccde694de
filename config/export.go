package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"provmgr/config/models"
	"provmgr/config/storage"
	"provmgr/config/validation"
	"provmgr/internal/logging"
)

// RedactedAPIKey replaces real key material in redacted exports.
const RedactedAPIKey = "***"

// Export serializes the decrypted document to pretty-printed JSON. With
// redact set, every provider's apiKey is surgically replaced so the export
// can be shared without leaking secrets.
func (s *Store) Export(redact bool) ([]byte, error) {
	doc := s.Read(false)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize config: %w", err)
	}
	if !redact {
		return data, nil
	}

	out := string(data)
	gjson.GetBytes(data, "provider").ForEach(func(id, entry gjson.Result) bool {
		if entry.Get("options.apiKey").String() == "" {
			return true
		}
		path := "provider." + id.String() + ".options.apiKey"
		updated, err := sjson.Set(out, path, RedactedAPIKey)
		if err != nil {
			logging.Warn("Config", "failed to redact api key for provider %s: %v", id.String(), err)
			return true
		}
		out = updated
		return true
	})
	return []byte(out), nil
}

// Import replaces or merges the document from an exported JSON payload. The
// current file is backed up first. Every imported entry is validated; a
// single invalid entry rejects the whole payload so a botched import never
// half-applies. Redacted api keys are skipped on merge (the existing key is
// kept) and dropped on replace.
func (s *Store) Import(data []byte, merge bool) (int, error) {
	if !gjson.ValidBytes(data) {
		return 0, fmt.Errorf("import payload is not valid JSON")
	}

	var incoming models.Document
	if err := json.Unmarshal(data, &incoming); err != nil {
		return 0, fmt.Errorf("import payload does not match the config format: %w", err)
	}
	if incoming.Provider == nil {
		return 0, fmt.Errorf("import payload has no provider section")
	}

	var errs []string
	for id, cfg := range incoming.Provider {
		if res := validation.ValidateProvider(id, cfg); !res.Valid {
			errs = append(errs, res.Errors...)
		}
	}
	if len(errs) > 0 {
		return 0, fmt.Errorf("import payload failed validation: %s", strings.Join(errs, "; "))
	}

	if storage.FileExists(s.path) {
		backup, err := storage.CreateBackup(s.path)
		if err != nil {
			return 0, fmt.Errorf("failed to back up current config: %w", err)
		}
		logging.Info("Config", "backed up current config to %s", backup)
		if err := storage.CleanupBackups(s.path, storage.DefaultBackupRetention); err != nil {
			logging.Warn("Config", "failed to clean up old backups: %v", err)
		}
	}

	doc := models.NewDocument()
	if merge {
		doc = s.Read(false)
	}
	count := 0
	for id, cfg := range incoming.Provider {
		if cfg.Options.APIKey == RedactedAPIKey {
			if existing, ok := doc.Provider[id]; ok {
				cfg.Options.APIKey = existing.Options.APIKey
			} else {
				cfg.Options.APIKey = ""
			}
		}
		doc.Provider[id] = cfg
		count++
	}

	if !s.Write(doc) {
		return 0, fmt.Errorf("failed to write imported config")
	}
	return count, nil
}
