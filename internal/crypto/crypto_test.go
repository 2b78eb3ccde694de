package crypto

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provmgr/config/models"
)

func newTestCipher(t *testing.T) *Cipher {
	t.Helper()
	return New(filepath.Join(t.TempDir(), ".keys", "master.key"))
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"sk-test",
		"a",
		strings.Repeat("k", 2048),
		"密钥-with-unicode-ключ-🔑",
		"line1\nline2\ttab",
	}
	for _, plaintext := range cases {
		env, ok := c.Encrypt(plaintext)
		require.True(t, ok, "encrypt %q", plaintext)
		require.Len(t, strings.Split(env, EnvelopeSep), 4)

		got, ok := c.Decrypt(env)
		require.True(t, ok)
		assert.Equal(t, plaintext, got)
	}
}

// For any non-empty plaintext, decrypt(encrypt(x)) == x and two encryptions
// of the same plaintext never produce the same envelope.
func TestEnvelopeProperties(t *testing.T) {
	c := newTestCipher(t)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	nonEmpty := gen.AnyString().SuchThat(func(s string) bool { return s != "" })

	properties.Property("round trip recovers plaintext", prop.ForAll(
		func(plaintext string) bool {
			env, ok := c.Encrypt(plaintext)
			if !ok {
				return false
			}
			got, ok := c.Decrypt(env)
			return ok && got == plaintext
		},
		nonEmpty,
	))

	properties.Property("fresh salt and iv per call", prop.ForAll(
		func(plaintext string) bool {
			a, okA := c.Encrypt(plaintext)
			b, okB := c.Encrypt(plaintext)
			return okA && okB && a != b
		},
		nonEmpty,
	))

	properties.TestingRun(t)
}

func TestEncryptEmptyInput(t *testing.T) {
	c := newTestCipher(t)

	env, ok := c.Encrypt("")
	assert.False(t, ok)
	assert.Empty(t, env)
}

func TestDecryptPassthrough(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"",
		"sk-plain-api-key",
		"has:two:parts",                // not four parts
		"a:b:c:d:e",                    // five parts
		"notahexvalue:ff:ff:ff",        // four parts but not all hex
		"sk-ant:something-with-a-colon",
	}
	for _, value := range cases {
		got, ok := c.Decrypt(value)
		assert.True(t, ok, "value %q", value)
		assert.Equal(t, value, got, "value %q", value)
	}
}

func TestDecryptTamperedEnvelope(t *testing.T) {
	c := newTestCipher(t)

	env, ok := c.Encrypt("sk-tamper-target")
	require.True(t, ok)

	flipHex := func(b byte) byte {
		if b == '0' {
			return '1'
		}
		return '0'
	}

	parts := strings.Split(env, EnvelopeSep)
	require.Len(t, parts, 4)

	// Flip one character in the tag and the ciphertext; authentication must
	// fail rather than return a wrong plaintext.
	for _, idx := range []int{2, 3} {
		tampered := make([]string, 4)
		copy(tampered, parts)
		mutated := []byte(tampered[idx])
		mutated[0] = flipHex(mutated[0])
		tampered[idx] = string(mutated)

		got, ok := c.Decrypt(strings.Join(tampered, EnvelopeSep))
		assert.False(t, ok, "tampered part %d", idx)
		assert.Empty(t, got)
	}
}

func TestDecryptWithWrongKey(t *testing.T) {
	a := newTestCipher(t)
	b := newTestCipher(t)

	env, ok := a.Encrypt("sk-secret")
	require.True(t, ok)

	got, ok := b.Decrypt(env)
	assert.False(t, ok)
	assert.Empty(t, got)
}

func TestMasterKeyPersistence(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), ".keys", "master.key")

	first := New(keyPath)
	require.True(t, first.Persisted())

	info, err := os.Stat(keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	env, ok := first.Encrypt("sk-persist")
	require.True(t, ok)

	// A second cipher loading the same key file must be able to open
	// envelopes from the first one.
	second := New(keyPath)
	got, ok := second.Decrypt(env)
	require.True(t, ok)
	assert.Equal(t, "sk-persist", got)
}

func TestDocumentEncryptDecrypt(t *testing.T) {
	c := newTestCipher(t)

	doc := models.NewDocument()
	doc.Provider["openai"] = models.ProviderConfig{
		Name: "OpenAI",
		Options: models.ProviderOptions{
			BaseURL: "https://api.openai.com/v1",
			APIKey:  "sk-test",
		},
		Models: map[string]models.ModelInfo{"gpt-4": {Name: "gpt-4"}},
	}
	doc.Provider["nokey"] = models.ProviderConfig{
		Options: models.ProviderOptions{BaseURL: "https://example.com"},
	}

	enc := c.EncryptDocument(doc)
	// Source document is untouched.
	assert.Equal(t, "sk-test", doc.Provider["openai"].Options.APIKey)
	assert.Len(t, strings.Split(enc.Provider["openai"].Options.APIKey, EnvelopeSep), 4)
	assert.Empty(t, enc.Provider["nokey"].Options.APIKey)

	dec := c.DecryptDocument(enc)
	assert.Equal(t, "sk-test", dec.Provider["openai"].Options.APIKey)
	assert.Equal(t, "https://api.openai.com/v1", dec.Provider["openai"].Options.BaseURL)
}
