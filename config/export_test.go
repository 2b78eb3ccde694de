package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"provmgr/config/storage"
)

func TestExportRedactsAPIKeys(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("openai", sampleProvider()))

	data, err := s.Export(true)
	require.NoError(t, err)

	out := gjson.ParseBytes(data)
	assert.Equal(t, RedactedAPIKey, out.Get("provider.openai.options.apiKey").String())
	assert.Equal(t, "https://api.openai.com/v1", out.Get("provider.openai.options.baseURL").String())
	assert.NotContains(t, string(data), "sk-test")
}

func TestExportWithoutRedaction(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("openai", sampleProvider()))

	data, err := s.Export(false)
	require.NoError(t, err)
	assert.Equal(t, "sk-test", gjson.GetBytes(data, "provider.openai.options.apiKey").String())
}

func TestImportReplace(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("old", sampleProvider()))

	payload := []byte(`{
	  "provider": {
	    "deepseek": {
	      "name": "DeepSeek",
	      "options": {"baseURL": "https://api.deepseek.com", "apiKey": "sk-ds"},
	      "models": {"deepseek-chat": {"name": "deepseek-chat"}}
	    }
	  }
	}`)

	count, err := s.Import(payload, false)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	doc := s.Read(false)
	assert.NotContains(t, doc.Provider, "old")
	assert.Equal(t, "sk-ds", doc.Provider["deepseek"].Options.APIKey)
}

func TestImportMergeKeepsExistingEntries(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("openai", sampleProvider()))

	payload := []byte(`{"provider": {"ollama": {"options": {"baseURL": "http://localhost:11434"}}}}`)
	count, err := s.Import(payload, true)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	doc := s.Read(false)
	assert.Contains(t, doc.Provider, "openai")
	assert.Contains(t, doc.Provider, "ollama")
}

func TestImportRedactedKeyKeepsCurrentSecret(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("openai", sampleProvider()))

	// Round-trip a redacted export back into the store.
	data, err := s.Export(true)
	require.NoError(t, err)

	_, err = s.Import(data, true)
	require.NoError(t, err)

	got, ok := s.GetProvider("openai")
	require.True(t, ok)
	assert.Equal(t, "sk-test", got.Options.APIKey)
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Import([]byte("{broken"), false)
	assert.Error(t, err)

	_, err = s.Import([]byte(`{"something": "else"}`), false)
	assert.Error(t, err)

	// One invalid entry rejects the whole payload.
	_, err = s.Import([]byte(`{"provider": {"bad id!": {"options": {}}}}`), false)
	assert.Error(t, err)
}

func TestImportBacksUpExistingConfig(t *testing.T) {
	s := newTestStore(t)
	require.True(t, s.AddOrUpdateProvider("openai", sampleProvider()))

	payload := []byte(`{"provider": {"ollama": {"options": {"baseURL": "http://localhost:11434"}}}}`)
	_, err := s.Import(payload, false)
	require.NoError(t, err)

	backups, err := storage.ListBackups(s.Path())
	require.NoError(t, err)
	assert.NotEmpty(t, backups)
}
