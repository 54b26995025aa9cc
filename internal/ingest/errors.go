package ingest

import "errors"

var (
	ErrUnsupportedFile = errors.New("unsupported file type: use .csv, .xlsx, .xls or .pdf")
	ErrEmptyFile       = errors.New("empty file: no data rows found")
	ErrUploadNotFound  = errors.New("upload not found")
	ErrNoFile          = errors.New("no file provided")
)
