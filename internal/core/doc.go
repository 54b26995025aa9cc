// Package core provides the tabular data engine behind table browsing and export.
//
// This package holds all domain logic independent of any UI, transport or
// storage layer. It can be used by web handlers, the CLI, or tests without
// modification. Apart from the Presets service, which reads and writes
// through an injected [PresetStore], every operation is a pure function of
// its arguments.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Parsers: [ParseAmount] and [ParseDate] interpret messy cell text.
//   - Inference: [InferColumnType] (preview, tolerant) and
//     [InferColumnTypeStrict] (ingestion, unanimous) classify columns.
//   - Filters: a sealed [Filter] union of [TextFilter], [DateFilter] and
//     [AmountFilter], combined with AND by [EvaluateRow].
//   - Views: [SearchTables], [ApplyFilters], [SortRows] and [Browse] derive
//     what the user sees from immutable source tables.
//   - Export: [WriteCSV], [ExportBaseName] and [CSVFilename].
//   - Presets: named filter snapshots managed by [Presets].
//
// # Deriving a View
//
// A browse request flows through search, pagination, filtering and sorting
// in that order:
//
//	res := core.Browse(tables, core.ViewState{
//	    Page:    0,
//	    Search:  "widget",
//	    Sort:    core.SortSpec{Column: 1, Direction: core.SortAsc},
//	    Filters: core.FilterList{core.AmountFilter{ColumnIndex: 1, Operator: core.AmountGreaterThan, Value: 5, Enabled: true}},
//	})
//
// Search selects whole tables; filters select rows within the current
// table; sort reorders data rows. The header row is never filtered or moved.
//
// # Locale
//
// Ambiguous numeric dates are read month-first unless [DayFirst] is chosen
// through [ViewOptions]. Sorting uses golang.org/x/text/collate with the
// configured locale and case folding.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, type, unreadable input)
//   - EXT001-EXT002: Table extraction errors
//   - UPL001-UPL004: Upload errors (busy, expired, cancelled, timeout)
//   - PRE001-PRE003: Saved filter errors
//   - VIEW001-VIEW002: Invalid filters and view requests
//   - RATE001: Too many requests
package core
