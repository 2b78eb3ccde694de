package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverModelsDataArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		require.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data": [{"id": "gpt-4"}, {"id": "gpt-3.5-turbo"}]}`))
	}))
	defer srv.Close()

	found, err := New().DiscoverModels(context.Background(), srv.URL, "sk-test")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "gpt-4", found["gpt-4"].Name)
}

func TestDiscoverModelsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name": "llama3"}, {"id": "mistral"}, {"object": "no id here"}]`))
	}))
	defer srv.Close()

	found, err := New().DiscoverModels(context.Background(), srv.URL, "")
	require.NoError(t, err)
	// Entries without an id or name are silently skipped.
	assert.Len(t, found, 2)
	assert.Contains(t, found, "llama3")
	assert.Contains(t, found, "mistral")
}

func TestDiscoverModelsFallsBackToUnversionedPath(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/v1/models" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"data": [{"id": "qwen2"}]}`))
	}))
	defer srv.Close()

	found, err := New().DiscoverModels(context.Background(), srv.URL, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, []string{"/v1/models", "/models"}, paths)
	assert.Contains(t, found, "qwen2")
}

func TestDiscoverModelsEmptyListTriggersFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/models" {
			w.Write([]byte(`{"data": []}`))
			return
		}
		w.Write([]byte(`{"data": [{"id": "actual-model"}]}`))
	}))
	defer srv.Close()

	found, err := New().DiscoverModels(context.Background(), srv.URL, "")
	require.NoError(t, err)
	assert.Contains(t, found, "actual-model")
}

func TestDiscoverModelsErrorNamesAllAttemptedPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New().DiscoverModels(context.Background(), srv.URL, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/v1/models")
	assert.Contains(t, err.Error(), "/models")
}

func TestDiscoverModelsVersionedBaseURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Base URL already carries /v1; the endpoint must not duplicate it.
		require.Equal(t, "/v1/models", r.URL.Path)
		w.Write([]byte(`{"data": [{"id": "gpt-4"}]}`))
	}))
	defer srv.Close()

	found, err := New().DiscoverModels(context.Background(), srv.URL+"/v1/", "sk-test")
	require.NoError(t, err)
	assert.Contains(t, found, "gpt-4")
}

func TestDiscoverModelsUnparsableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	}))
	defer srv.Close()

	_, err := New().DiscoverModels(context.Background(), srv.URL, "")
	assert.Error(t, err)
}

func TestDiscoverModelsRequiresBaseURL(t *testing.T) {
	_, err := New().DiscoverModels(context.Background(), "", "sk-test")
	assert.Error(t, err)
}
