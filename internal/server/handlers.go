package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"provmgr/config/models"
	"provmgr/config/validation"
	"provmgr/internal/logging"
	"provmgr/internal/presets"
)

// maxImportSize bounds the import payload; config documents are small.
const maxImportSize = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("HTTP", err, "failed to encode response")
	}
}

// handleGetConfig returns the full document in its decrypted in-memory form.
func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Read(true))
}

type saveProviderRequest struct {
	ProviderID string                `json:"providerId"`
	Config     models.ProviderConfig `json:"config"`
}

type saveProviderResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// handleSaveProvider validates one provider entry and merges it into the
// document by id. Validation failures carry every field violation at once.
func (s *Server) handleSaveProvider(w http.ResponseWriter, r *http.Request) {
	var req saveProviderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, saveProviderResponse{
			Errors: []string{"invalid request body: expected {providerId, config}"},
		})
		return
	}

	if res := validation.ValidateProvider(req.ProviderID, req.Config); !res.Valid {
		writeJSON(w, http.StatusBadRequest, saveProviderResponse{Errors: res.Errors})
		return
	}

	if !s.store.AddOrUpdateProvider(req.ProviderID, req.Config) {
		writeJSON(w, http.StatusInternalServerError, saveProviderResponse{
			Error: "failed to write configuration",
		})
		return
	}
	writeJSON(w, http.StatusOK, saveProviderResponse{Success: true})
}

// handleDeleteProvider removes one provider; deleting an unknown id is a 404.
func (s *Server) handleDeleteProvider(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, ok := s.store.GetProvider(id); !ok {
		writeJSON(w, http.StatusNotFound, saveProviderResponse{
			Error: fmt.Sprintf("provider not found: %s", id),
		})
		return
	}

	if !s.store.DeleteProvider(id) {
		writeJSON(w, http.StatusInternalServerError, saveProviderResponse{
			Error: "failed to write configuration",
		})
		return
	}
	writeJSON(w, http.StatusOK, saveProviderResponse{Success: true})
}

type discoverRequest struct {
	BaseURL string `json:"baseURL"`
	APIKey  string `json:"apiKey"`
}

// handleDiscoverModels enumerates models behind an endpoint. Upstream
// failures are about the remote service, not this one, so the response is
// always 200 with the error in-band.
func (s *Server) handleDiscoverModels(w http.ResponseWriter, r *http.Request) {
	var req discoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": "invalid request body: expected {baseURL, apiKey}"})
		return
	}

	found, err := s.probe.DiscoverModels(r.Context(), req.BaseURL, req.APIKey)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"models": found})
}

type testModelRequest struct {
	BaseURL string `json:"baseURL"`
	APIKey  string `json:"apiKey"`
	ModelID string `json:"modelId"`
}

// handleTestModel runs a live round-trip against one model; always 200 with
// a structured result.
func (s *Server) handleTestModel(w http.ResponseWriter, r *http.Request) {
	var req testModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"error":   "invalid request body: expected {baseURL, apiKey, modelId}",
		})
		return
	}

	writeJSON(w, http.StatusOK, s.probe.TestConnection(r.Context(), req.BaseURL, req.APIKey, req.ModelID))
}

// handleExport streams the document as a downloadable JSON file. API keys are
// redacted unless ?redact=false is given explicitly.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	redact := r.URL.Query().Get("redact") != "false"

	data, err := s.store.Export(redact)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="providers.json"`)
	w.Write(data)
}

// handleImport replaces or merges (?merge=true) the document from an
// exported payload.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "failed to read request body"})
		return
	}

	merge := r.URL.Query().Get("merge") == "true"
	count, err := s.store.Import(body, merge)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "imported": count})
}

// handlePresets lists the built-in provider catalog.
func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"presets": presets.All()})
}
