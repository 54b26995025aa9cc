package core

// error_messages.go maps technical errors to user-facing messages.
//
// Codes let a user quote a failure to support without exposing internals:
//
//	FILE001 - File too large          Patterns: "file too large", "request body too large"
//	FILE002 - Unsupported file type   Patterns: "unsupported file"
//	FILE003 - Unreadable spreadsheet  Patterns: "invalid workbook", "invalid csv"
//	FILE004 - No file selected        Patterns: "no file provided"
//	FILE005 - Empty file              Patterns: "empty file"
//	FILE006 - Unreadable PDF          Patterns: "invalid pdf"
//
//	EXT001  - Extraction unavailable  Patterns: "extraction service unavailable"
//	EXT002  - Extraction failed       Patterns: "extraction failed"
//
//	PRE001  - Preset not found        Patterns: "preset not found"
//	PRE002  - Preset name missing     Patterns: "preset name is required"
//	PRE003  - Preset storage failure  Patterns: "save presets", "load presets"
//
//	UPL001  - System busy             Patterns: "too many uploads"
//	UPL002  - Upload expired          Patterns: "upload not found"
//	UPL003  - Request cancelled       Patterns: "context canceled"
//	UPL004  - Request timed out       Patterns: "context deadline exceeded"
//
//	VIEW001 - Invalid filter          Patterns: "invalid filter"
//	VIEW002 - Invalid view request    Patterns: "invalid view"
//
//	RATE001 - Rate limited            Patterns: "rate limit"
//
//	ERR000  - Unknown error (fallback; check the logs for the technical error)
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones. Preset
// storage failures often wrap a context error and must stay ahead of the
// context patterns.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the document or export fewer sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the document or export fewer sheets",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file",
		msg: UserMessage{
			Message: "This file type is not supported",
			Action:  "Upload a PDF, CSV or Excel (.xlsx) file",
			Code:    "FILE002",
		},
	},
	{
		pattern: "invalid workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Re-save the file as .xlsx or .csv and try again",
			Code:    "FILE003",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The spreadsheet could not be read",
			Action:  "Ensure the file is comma-separated with consistent quoting",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no data",
			Action:  "Upload a file with a header row and at least one data row",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid pdf",
		msg: UserMessage{
			Message: "The PDF could not be opened",
			Action:  "Check that the file is not encrypted or damaged",
			Code:    "FILE006",
		},
	},

	// =========================================================================
	// Extraction Errors (EXT001-EXT002)
	// =========================================================================
	{
		pattern: "extraction service unavailable",
		msg: UserMessage{
			Message: "The table extraction service is unavailable",
			Action:  "Please try again in a few moments",
			Code:    "EXT001",
		},
	},
	{
		pattern: "extraction failed",
		msg: UserMessage{
			Message: "Tables could not be extracted from this document",
			Action:  "Try a text-based PDF or upload the data as a spreadsheet",
			Code:    "EXT002",
		},
	},

	// =========================================================================
	// Preset Errors (PRE001-PRE003)
	// =========================================================================
	{
		pattern: "preset not found",
		msg: UserMessage{
			Message: "Saved filter set not found",
			Action:  "Refresh the list of saved filters",
			Code:    "PRE001",
		},
	},
	{
		pattern: "preset name is required",
		msg: UserMessage{
			Message: "A name is required to save filters",
			Action:  "Enter a name for this filter set",
			Code:    "PRE002",
		},
	},
	{
		pattern: "save presets",
		msg: UserMessage{
			Message: "Saved filters could not be stored",
			Action:  "Please try again",
			Code:    "PRE003",
		},
	},
	{
		pattern: "load presets",
		msg: UserMessage{
			Message: "Saved filters could not be loaded",
			Action:  "Please try again",
			Code:    "PRE003",
		},
	},

	// =========================================================================
	// Upload Errors (UPL001-UPL004)
	// =========================================================================
	{
		pattern: "too many uploads",
		msg: UserMessage{
			Message: "System is busy processing other uploads",
			Action:  "Please wait a moment and try again",
			Code:    "UPL001",
		},
	},
	{
		pattern: "upload not found",
		msg: UserMessage{
			Message: "Upload session not found",
			Action:  "The upload may have expired. Please upload the file again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "UPL004",
		},
	},

	// =========================================================================
	// View Errors (VIEW001-VIEW002)
	// =========================================================================
	{
		pattern: "invalid filter",
		msg: UserMessage{
			Message: "One of the filters is not valid",
			Action:  "Check the filter column and operator",
			Code:    "VIEW001",
		},
	},
	{
		pattern: "invalid view",
		msg: UserMessage{
			Message: "The view request could not be understood",
			Action:  "Reload the page and try again",
			Code:    "VIEW002",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or the ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a specific pattern rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
