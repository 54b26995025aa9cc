package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// maxViewBody bounds a JSON view state.
const maxViewBody = 1 << 20

// decodeViewState reads a JSON ViewState. An empty body is the initial
// state: first page, no search, no sort, no filters.
func decodeViewState(w http.ResponseWriter, r *http.Request) (core.ViewState, error) {
	state := core.ViewState{Sort: core.Unsorted}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxViewBody))
	if err != nil {
		return state, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return state, nil
	}

	// Filters are validated while decoding.
	if err := json.Unmarshal(body, &state); err != nil {
		return state, fmt.Errorf("invalid view: %w", err)
	}
	return state, nil
}

func (s *Server) handleListUploads(w http.ResponseWriter, r *http.Request) {
	list := s.uploads.Registry().List()
	out := make([]uploadResponse, len(list))
	for i, u := range list {
		out[i] = s.summarize(u)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetUpload(w http.ResponseWriter, r *http.Request) {
	u, err := s.uploads.Get(chi.URLParam(r, "uploadID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s.summarize(u))
}

func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	if err := s.uploads.Remove(chi.URLParam(r, "uploadID")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleView derives one page of an upload from the posted view state.
// HTMX requests get the rendered table fragment instead of JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	state, err := decodeViewState(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.uploads.Browse(chi.URLParam(r, "uploadID"), state)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := templates.ViewTable(res, res.Columns, state.Sort).Render(r.Context(), w); err != nil {
			s.respondError(w, r, err)
		}
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleExport downloads the page's table as CSV with the current filters
// and sort applied.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	state, err := decodeViewState(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var buf bytes.Buffer
	name, err := s.uploads.Export(chi.URLParam(r, "uploadID"), state, &buf)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(buf.Bytes())
}
