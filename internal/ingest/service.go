package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/JonMunkholm/docgrid/internal/config"
	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/logging"
)

// DefaultUploadTimeout bounds parsing plus extraction of one upload.
const DefaultUploadTimeout = 2 * time.Minute

// Service turns uploaded files into browsable tables and datasets.
type Service struct {
	dir       string
	timeout   time.Duration
	limiter   *Limiter
	registry  *Registry
	extractor Extractor
	view      core.ViewOptions
	now       func() time.Time
}

// NewService creates the upload directory and wires the limiter and
// registry from cfg. extractor handles PDFs; nil rejects them.
func NewService(cfg config.UploadConfig, extractor Extractor, view core.ViewOptions) (*Service, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}

	return &Service{
		dir:       dir,
		timeout:   timeout,
		limiter:   NewLimiter(cfg.MaxConcurrent, cfg.MaxWaitTime),
		registry:  NewRegistry(cfg.TTL),
		extractor: extractor,
		view:      view,
		now:       time.Now,
	}, nil
}

func (s *Service) Limiter() *Limiter      { return s.limiter }
func (s *Service) Registry() *Registry    { return s.registry }
func (s *Service) View() core.ViewOptions { return s.view }

// Upload parses a document and registers it for browsing.
//
// CSV becomes one table, a workbook one table per non-empty sheet, and a PDF
// whatever the extraction service finds. Returns ErrTooManyUploads when no
// slot frees up in time.
func (s *Service) Upload(ctx context.Context, fileName string, r io.Reader) (u *Upload, err error) {
	kind, err := DetectKind(fileName)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.WithFields(ctx, "file", fileName, "kind", kind)
	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("panic while parsing upload", "panic", rec)
			if u != nil && u.path != "" {
				os.Remove(u.path)
			}
			u, err = nil, fmt.Errorf("internal error: %v", rec)
		}
	}()

	u = &Upload{FileName: filepath.Base(fileName), Kind: kind}
	switch kind {
	case KindCSV:
		var t core.Table
		t, err = ReadCSVTable(r)
		u.Tables = []core.Table{t}
	case KindWorkbook:
		var sheets []Sheet
		if sheets, err = ReadWorkbook(r); err == nil {
			u.Tables = WorkbookTables(sheets)
			if len(u.Tables) == 0 {
				err = ErrEmptyFile
			}
		}
	case KindPDF:
		err = s.extractPDF(ctx, u, r)
	}
	if err != nil {
		logger.Warn("upload rejected", "error", err, "duration_ms", time.Since(start).Milliseconds())
		if u.path != "" {
			os.Remove(u.path)
		}
		return nil, err
	}

	if _, err := s.registry.Add(u); err != nil {
		return nil, err
	}

	logger.Info("upload parsed",
		"upload_id", u.ID,
		"tables", len(u.Tables),
		"pages", u.Pages,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return u, nil
}

// extractPDF stores the document where the extraction service can read it,
// checks it is a real PDF and asks the service for its tables.
func (s *Service) extractPDF(ctx context.Context, u *Upload, r io.Reader) error {
	if s.extractor == nil {
		return fmt.Errorf("%w: no extraction service configured", ErrExtractUnavailable)
	}

	f, err := os.CreateTemp(s.dir, "upload-*.pdf")
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	u.path = f.Name()

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("store upload: %w", err)
	}
	if n == 0 {
		return ErrEmptyFile
	}

	if u.Pages, err = PDFPageCount(u.path); err != nil {
		return err
	}

	u.Tables, err = s.extractor.ExtractTables(ctx, u.path)
	return err
}

// Dataset parses a spreadsheet for import with strict column typing.
func (s *Service) Dataset(ctx context.Context, fileName string, r io.Reader) (*Dataset, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ds, err := ParseDataset(fileName, r, s.view.DateOrder)
	if err != nil {
		return nil, err
	}
	logging.FromContext(ctx).Info("dataset parsed",
		"file", ds.FileName,
		"rows", ds.RowCount,
		"columns", len(ds.Columns),
	)
	return ds, nil
}

// Get returns a registered upload.
func (s *Service) Get(id string) (*Upload, error) {
	return s.registry.Get(id)
}

// Remove forgets an upload and deletes its stored file.
func (s *Service) Remove(id string) error {
	return s.registry.Remove(id)
}

// Describe returns preview-mode column descriptors for each table.
func (s *Service) Describe(u *Upload) [][]core.ColumnDescriptor {
	out := make([][]core.ColumnDescriptor, len(u.Tables))
	for i, t := range u.Tables {
		out[i] = s.view.DateOrder.DescribeColumns(t)
	}
	return out
}

// Browse derives the page of upload id described by state.
func (s *Service) Browse(id string, state core.ViewState) (core.BrowseResult, error) {
	u, err := s.registry.Get(id)
	if err != nil {
		return core.BrowseResult{}, err
	}
	return s.view.Browse(u.Tables, state), nil
}

// Export writes the table shown for state, with its filters and sort
// applied, as CSV to w. It returns the suggested download file name.
func (s *Service) Export(id string, state core.ViewState, w io.Writer) (string, error) {
	res, err := s.Browse(id, state)
	if err != nil {
		return "", err
	}
	if res.Table == nil {
		return "", fmt.Errorf("invalid view: no table matches the search")
	}

	name := core.CSVFilename(core.ExportBaseName(*res.Table, res.Page), s.now())
	if err := core.WriteCSV(w, res.Table.Grid()); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return name, nil
}
