package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

type savePresetRequest struct {
	Name    string          `json:"name"`
	Filters core.FilterList `json:"filters"`
}

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	sets, err := s.presets.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		templates.PresetList(sets).Render(r.Context(), w)
		return
	}
	writeJSON(w, r, http.StatusOK, sets)
}

// handleSavePreset snapshots the posted filters under a name.
func (s *Server) handleSavePreset(w http.ResponseWriter, r *http.Request) {
	var req savePresetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxViewBody)).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("invalid view: decode preset: %w", err))
		return
	}

	fs, err := s.presets.Save(r.Context(), req.Name, req.Filters)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, fs)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	fs, err := s.presets.Get(r.Context(), chi.URLParam(r, "presetID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, fs)
}

// handleApplyPreset returns a copy of the preset's filters. The client
// replaces its active filter list with it.
func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	filters, err := s.presets.Apply(r.Context(), chi.URLParam(r, "presetID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, struct {
		Filters core.FilterList `json:"filters"`
	}{filters})
}

func (s *Server) handleDeletePreset(w http.ResponseWriter, r *http.Request) {
	if err := s.presets.Delete(r.Context(), chi.URLParam(r, "presetID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
