package web

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/ingest"
	"github.com/JonMunkholm/docgrid/internal/logging"
)

// tableSummary describes one table of an upload for the client.
type tableSummary struct {
	Position int                     `json:"position"`
	Source   core.Source             `json:"source"`
	RowCount int                     `json:"rowCount"`
	Columns  []core.ColumnDescriptor `json:"columns"`
}

type uploadResponse struct {
	*ingest.Upload
	Tables []tableSummary `json:"tables"`
}

func (s *Server) summarize(u *ingest.Upload) uploadResponse {
	cols := s.uploads.Describe(u)
	out := uploadResponse{Upload: u, Tables: make([]tableSummary, len(u.Tables))}
	for i, t := range u.Tables {
		out.Tables[i] = tableSummary{
			Position: i,
			Source:   t.Source,
			RowCount: t.DataRowCount(),
			Columns:  cols[i],
		}
	}
	return out
}

// formFile limits the body to the configured upload size and returns the
// multipart "file" part.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *multipart.FileHeader, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	if maxSize <= 0 {
		maxSize = 100 << 20
	}
	if r.ContentLength > maxSize {
		return nil, nil, fmt.Errorf("file too large: limit is %d bytes", maxSize)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, nil, fmt.Errorf("file too large: limit is %d bytes", maxSize)
		}
		return nil, nil, fmt.Errorf("%w: %v", ingest.ErrNoFile, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ingest.ErrNoFile, err)
	}
	return file, header, nil
}

// handleUpload parses a CSV, workbook or PDF into browsable tables.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	logging.FromContext(r.Context()).Debug("upload received",
		"file", header.Filename,
		"size", header.Size,
	)

	u, err := s.uploads.Upload(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, s.summarize(u))
}

// handleDataset parses a spreadsheet for import with strict column types.
func (s *Server) handleDataset(w http.ResponseWriter, r *http.Request) {
	file, header, err := s.formFile(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer file.Close()

	ds, err := s.uploads.Dataset(r.Context(), header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, struct {
		Success bool `json:"success"`
		*ingest.Dataset
	}{true, ds})
}
