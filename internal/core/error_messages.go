package core

// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. When users encounter errors, they can quote the error code to
// support staff for faster diagnosis.
//
// Known error values are matched first with errors.Is and errors.As. Errors
// from outside the application (network, database driver) are then matched
// by case-insensitive substring.
//
// # Sheet Errors (SHT001-SHT099)
//
//	SHT001 - Index out of range: A row or column position does not exist
//	         Action: Refresh the sheet and try again
//	         Matches: sheet.ErrIndexOutOfRange
//
//	SHT002 - No document: No spreadsheet is loaded
//	         Action: Upload a spreadsheet first
//	         Matches: sheet.ErrNoDocument
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unsupported format: The export format is not supported
//	         Action: Choose xlsx, csv, txt or docx
//	         Matches: export.ErrUnsupportedFormat
//
//	EXP002 - No columns: The sheet has no columns to export
//	         Matches: export.ErrNoColumns
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the upload size limit
//	          Matches: ErrFileTooLarge, "request body too large"
//
//	FILE002 - Unsupported file: File type cannot be read
//	          Matches: ingest.ErrUnsupportedFile
//
//	FILE003 - Unreadable file: File could not be parsed
//	          Matches: *ingest.ParseError
//
//	FILE004 - No file: No file was selected
//	          Matches: ErrNoFile
//
// # Ingest Errors (ING001-ING099)
//
//	ING001 - Ingest in progress: This workspace is already loading a file
//	ING002 - System busy: Too many files are being read
//	ING003 - Request cancelled: context.Canceled
//	ING004 - Request timeout: context.DeadlineExceeded
//
// # Workspace Errors (WS001-WS099)
//
//	WS001 - Workspace not found: It was closed or expired
//	WS002 - Too many workspaces: The server holds its maximum
//
// # Session Errors (SES001-SES099)
//
//	SES001 - Session not found: store.ErrNotFound
//	SES002 - Invalid session: *store.ValidationError
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid request: A parameter or body field is missing or malformed
//	         Matches: ErrInvalidRequest
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused: "connection refused"
//	DB002 - Connection reset: "connection reset"
//	DB003 - Timeout: "timeout"
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: ErrRateLimited, "rate limit"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// When a user reports ERR000, check application logs for the original
// technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/ingest"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/JonMunkholm/sheetclean/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorKind pairs a test on the error chain with its user message.
type errorKind struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func as[T error]() func(error) bool {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// errorKinds is checked in order before errorPatterns. Context errors come
// before *ingest.ParseError because a cancelled parse is wrapped in one.
var errorKinds = []errorKind{
	// Sheet (SHT001-SHT002)
	{is(sheet.ErrIndexOutOfRange), UserMessage{
		Message: "That row or column no longer exists",
		Action:  "Refresh the sheet and try again",
		Code:    "SHT001",
	}},
	{is(sheet.ErrNoDocument), UserMessage{
		Message: "No spreadsheet is loaded",
		Action:  "Upload a spreadsheet first",
		Code:    "SHT002",
	}},

	// Export (EXP001-EXP002)
	{is(export.ErrUnsupportedFormat), UserMessage{
		Message: "This export format is not supported",
		Action:  "Choose xlsx, csv, txt or docx",
		Code:    "EXP001",
	}},
	{is(export.ErrNoColumns), UserMessage{
		Message: "The sheet has no columns to export",
		Action:  "Upload a sheet with a header row",
		Code:    "EXP002",
	}},

	// Ingest (ING001-ING004)
	{is(ErrIngestInProgress), UserMessage{
		Message: "This workspace is already loading a file",
		Action:  "Wait for the current upload to finish",
		Code:    "ING001",
	}},
	{is(ErrTooManyIngests), UserMessage{
		Message: "System is busy reading other files",
		Action:  "Please wait a moment and try again",
		Code:    "ING002",
	}},
	{is(context.Canceled), UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "ING003",
	}},
	{is(context.DeadlineExceeded), UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "ING004",
	}},

	// File (FILE001-FILE004)
	{is(ErrFileTooLarge), UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Remove unused rows or split the file",
		Code:    "FILE001",
	}},
	{is(ingest.ErrUnsupportedFile), UserMessage{
		Message: "This file type cannot be read",
		Action:  "Upload an .xlsx, .csv, .tsv or .txt file",
		Code:    "FILE002",
	}},
	{as[*ingest.ParseError](), UserMessage{
		Message: "The file could not be read",
		Action:  "Check that the file opens in a spreadsheet program and try again",
		Code:    "FILE003",
	}},
	{is(ErrNoFile), UserMessage{
		Message: "No file was selected",
		Action:  "Please select a spreadsheet to upload",
		Code:    "FILE004",
	}},

	// Workspace (WS001-WS002)
	{is(ErrWorkspaceNotFound), UserMessage{
		Message: "Workspace not found",
		Action:  "It may have expired. Upload the file again",
		Code:    "WS001",
	}},
	{is(ErrTooManyWorkspaces), UserMessage{
		Message: "Too many spreadsheets are open",
		Action:  "Close a workspace or try again later",
		Code:    "WS002",
	}},

	// Session (SES001-SES002)
	{is(store.ErrNotFound), UserMessage{
		Message: "Saved session not found",
		Action:  "Refresh the session list",
		Code:    "SES001",
	}},
	{as[*store.ValidationError](), UserMessage{
		Message: "Session data is incomplete",
		Action:  "Send a title, file name, headers and data",
		Code:    "SES002",
	}},

	// Request (REQ001)
	{is(ErrInvalidRequest), UserMessage{
		Message: "The request is missing or has invalid fields",
		Action:  "Check the request parameters and try again",
		Code:    "REQ001",
	}},

	// Rate limiting (RATE001)
	{is(ErrRateLimited), UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user
// messages. The first matching pattern wins, so more specific patterns
// come first.
var errorPatterns = []errorPattern{
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Remove unused rows or split the file",
			Code:    "FILE001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Please try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("move column: %w", sheet.ErrIndexOutOfRange))
//	// msg.Code == "SHT001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, k := range errorKinds {
		if k.match(err) {
			return k.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the generic ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
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
