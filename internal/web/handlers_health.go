package web

import (
	"net/http"

	"github.com/JonMunkholm/docgrid/internal/ingest"
)

type healthResponse struct {
	Status  string               `json:"status"`
	Uploads ingest.LimiterStatus `json:"uploads"`
	Stored  int                  `json:"storedUploads"`
	Presets string               `json:"presetStore"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:  "ok",
		Uploads: s.uploads.Limiter().Status(),
		Stored:  s.uploads.Registry().Len(),
		Presets: s.driver,
	})
}
