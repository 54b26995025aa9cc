package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/JonMunkholm/docgrid/internal/core"
)

// DefaultExtractTimeout bounds one extraction call.
const DefaultExtractTimeout = 60 * time.Second

var (
	ErrExtractUnavailable = errors.New("extraction service unavailable")
	ErrExtractFailed      = errors.New("extraction failed")
)

// ExtractedTable is one table as returned by the extraction service.
// Cells may be null in the response; they become "".
type ExtractedTable struct {
	Rows       int     `json:"rows"`
	Columns    int     `json:"columns"`
	Data       [][]any `json:"data"`
	Page       *int    `json:"page"`
	TableIndex *int    `json:"table_index"`
}

// ExtractResponse is the body of POST /extract-tables.
type ExtractResponse struct {
	Success  bool             `json:"success"`
	FilePath string           `json:"file_path"`
	Tables   []ExtractedTable `json:"tables"`
}

// Extractor turns PDF documents into tables.
type Extractor interface {
	ExtractTables(ctx context.Context, path string) ([]core.Table, error)
}

// ExtractClient calls the table extraction service over HTTP. The service
// reads the file itself, so the path must be visible to it.
type ExtractClient struct {
	baseURL string
	http    *http.Client
}

// NewExtractClient creates a client for the service at baseURL.
func NewExtractClient(baseURL string, timeout time.Duration) *ExtractClient {
	if timeout <= 0 {
		timeout = DefaultExtractTimeout
	}
	return &ExtractClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// ExtractTables sends the absolute path of the document and converts the
// response into tables with a header row and page provenance.
func (c *ExtractClient) ExtractTables(ctx context.Context, path string) ([]core.Table, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	body, err := json.Marshal(map[string]string{"file_path": abs})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract-tables", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			return nil, fmt.Errorf("%w at %s", ErrExtractUnavailable, c.baseURL)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrExtractFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrExtractFailed, resp.StatusCode, errorDetail(data))
	}

	var out ExtractResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExtractFailed, err)
	}
	return ExtractedTables(out.Tables), nil
}

// ExtractedTables converts service tables to core tables, in response order.
func ExtractedTables(in []ExtractedTable) []core.Table {
	tables := make([]core.Table, 0, len(in))
	for _, et := range in {
		rows := make([]core.Row, len(et.Data))
		for i, r := range et.Data {
			rows[i] = core.RowFromValues(r)
		}
		t := core.Table{Rows: rows, HasHeader: len(rows) > 0}
		if et.Page != nil {
			t.Source.Page = *et.Page
		}
		if et.TableIndex != nil {
			t.Source.Index = *et.TableIndex
		}
		tables = append(tables, t)
	}
	return tables
}

// errorDetail pulls "detail" or "message" out of an error body.
func errorDetail(body []byte) string {
	var e struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Message != "" {
			return e.Message
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}
