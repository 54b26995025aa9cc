// Command tablectl applies a view (search, filters, sort, page) to a CSV,
// workbook or PDF and writes the resulting table as CSV.
//
//	tablectl -in invoices.xlsx -view q1.yaml -out q1.csv
//	tablectl -in invoices.csv -describe
//
// PDF input needs the table extraction service (-extract or
// EXTRACT_SERVICE_URL). Logs go to stderr so stdout can carry CSV.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/docgrid/internal/core"
	"github.com/JonMunkholm/docgrid/internal/ingest"
	"github.com/JonMunkholm/docgrid/internal/logging"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	in       string
	view     string
	out      string
	describe bool
	extract  string
	timeout  time.Duration
	logLevel string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tablectl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.in, "in", "", "input file (.csv, .xlsx, .pdf) or - for CSV on stdin")
	fs.StringVar(&o.view, "view", "", "YAML view definition")
	fs.StringVar(&o.out, "out", "", "output CSV file (default stdout)")
	fs.BoolVar(&o.describe, "describe", false, "print column descriptors as JSON instead of CSV")
	fs.StringVar(&o.extract, "extract", os.Getenv("EXTRACT_SERVICE_URL"), "table extraction service URL for PDF input")
	fs.DurationVar(&o.timeout, "timeout", ingest.DefaultExtractTimeout, "extraction timeout")
	fs.StringVar(&o.logLevel, "log-level", "warn", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.in == "" {
		fs.Usage()
		return o, errors.New("-in is required")
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// A .env next to the binary may carry EXTRACT_SERVICE_URL.
	_ = godotenv.Load()

	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, "tablectl:", err)
		return 2
	}

	log := logging.New(stderr, opts.logLevel, "text")
	if err := execute(ctx, opts, stdin, stdout, log); err != nil {
		log.Debug("tablectl failed", "error", err)
		msg := err.Error()
		if core.IsUserFacing(err) {
			msg = core.FormatUserError(err)
		}
		fmt.Fprintln(stderr, "tablectl:", msg)
		return 1
	}
	return 0
}

func execute(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer, log *slog.Logger) error {
	vf, state, err := loadView(opts.view)
	if err != nil {
		return err
	}
	view, err := core.NewViewOptions(vf.DateOrder, vf.Locale)
	if err != nil {
		return err
	}

	tables, err := loadTables(ctx, opts, stdin, log)
	if err != nil {
		return err
	}
	log.Info("loaded tables", "file", opts.in, "tables", len(tables))

	if opts.describe {
		return describe(stdout, tables, view)
	}

	res := view.Browse(tables, state)
	if res.Table == nil {
		return errors.New("invalid view: no table matches the search")
	}
	log.Info("view applied",
		"page", res.Page,
		"total_pages", res.TotalPages,
		"rows", res.RowCount,
		"filters_active", res.Active,
	)

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := core.WriteCSV(w, res.Table.Grid()); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	if opts.out == "" {
		// WriteCSV ends without a newline; keep the shell prompt on its own line.
		fmt.Fprintln(w)
	}
	return nil
}

func loadTables(ctx context.Context, opts options, stdin io.Reader, log *slog.Logger) ([]core.Table, error) {
	if opts.in == "-" {
		t, err := ingest.ReadCSVTable(stdin)
		if err != nil {
			return nil, err
		}
		return []core.Table{t}, nil
	}

	kind, err := ingest.DetectKind(opts.in)
	if err != nil {
		return nil, err
	}

	if kind == ingest.KindPDF {
		return loadPDF(ctx, opts, log)
	}

	f, err := os.Open(opts.in)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	if kind == ingest.KindCSV {
		t, err := ingest.ReadCSVTable(f)
		if err != nil {
			return nil, err
		}
		return []core.Table{t}, nil
	}

	sheets, err := ingest.ReadWorkbook(f)
	if err != nil {
		return nil, err
	}
	tables := ingest.WorkbookTables(sheets)
	if len(tables) == 0 {
		return nil, ingest.ErrEmptyFile
	}
	return tables, nil
}

func loadPDF(ctx context.Context, opts options, log *slog.Logger) ([]core.Table, error) {
	if opts.extract == "" {
		return nil, ingest.ErrExtractUnavailable
	}
	pages, err := ingest.PDFPageCount(opts.in)
	if err != nil {
		return nil, err
	}
	log.Info("extracting pdf tables", "file", opts.in, "pages", pages, "service", opts.extract)

	tables, err := ingest.NewExtractClient(opts.extract, opts.timeout).ExtractTables(ctx, opts.in)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, ingest.ErrEmptyFile
	}
	return tables, nil
}

type tableDescription struct {
	Table   int                     `json:"table"`
	Source  core.Source             `json:"source"`
	Rows    int                     `json:"rows"`
	Columns []core.ColumnDescriptor `json:"columns"`
}

func describe(w io.Writer, tables []core.Table, view core.ViewOptions) error {
	out := make([]tableDescription, len(tables))
	for i, t := range tables {
		out[i] = tableDescription{
			Table:   i,
			Source:  t.Source,
			Rows:    t.DataRowCount(),
			Columns: view.DateOrder.DescribeColumns(t),
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
