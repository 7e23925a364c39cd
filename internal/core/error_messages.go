package core

// error_messages.go maps technical errors to user-facing messages with a
// code that support staff can look up.
//
// # Error Codes Reference
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Empty batch: no rows could be parsed
//	IMP002 - No valid rows: every row failed validation
//	IMP003 - Batch too large: more rows than the configured limit
//	IMP004 - Unknown mode: mode is not create, update, upsert or skip_duplicates
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: a product with this slug or SKU already exists
//	DB002 - Unique constraint: a value that must be unique already exists
//	DB003 - Foreign key: the referenced category does not exist
//	DB004 - Connection refused
//	DB005 - Connection reset
//	DB006 - Timeout
//	DB007 - Deadlock
//	DB008 - Not found
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Name required
//	VAL002 - Invalid price
//	VAL003 - Category not found
//	VAL004 - Column count mismatch
//	VAL005 - Invalid integer
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Invalid CSV
//	FILE003 - Invalid workbook
//	FILE004 - No file provided
//	FILE005 - Unsupported format
//
// # Auth Errors (AUTH001-AUTH099)
//
//	AUTH001 - Missing or invalid token
//	AUTH002 - Not an administrator
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Invalid JSON body
//	REQ002 - Request cancelled
//	REQ003 - Request timed out
//	REQ004 - Invalid query parameter
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error; check the application logs for the technical error
//
// # Pattern Matching
//
// Sentinel errors are matched first with errors.Is. Everything else is matched
// case-insensitively with strings.Contains against errorPatterns; the first
// match wins, so specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

type sentinelMessage struct {
	err error
	msg UserMessage
}

// sentinelMessages are checked with errors.Is before any pattern.
var sentinelMessages = []sentinelMessage{
	{ErrEmptyBatch, UserMessage{
		Message: "No rows could be read from the upload",
		Action:  "Check that the file has a header row and at least one data row",
		Code:    "IMP001",
	}},
	{ErrNoValidRows, UserMessage{
		Message: "None of the rows are valid",
		Action:  "Review the row errors and fix the file before uploading again",
		Code:    "IMP002",
	}},
	{ErrBatchTooLarge, UserMessage{
		Message: "The upload has too many rows",
		Action:  "Split the file into smaller batches",
		Code:    "IMP003",
	}},
	{ErrUnknownMode, UserMessage{
		Message: "Unknown import mode",
		Action:  "Use create, update, upsert or skip_duplicates",
		Code:    "IMP004",
	}},
	{ErrDuplicate, UserMessage{
		Message: "A product with this slug or SKU already exists",
		Action:  "Use update or upsert mode, or change the slug",
		Code:    "DB001",
	}},
	{ErrNotFound, UserMessage{
		Message: "The requested record was not found",
		Action:  "Refresh the page and try again",
		Code:    "DB008",
	}},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// Database
	{"duplicate key", UserMessage{
		Message: "A product with this slug or SKU already exists",
		Action:  "Use update or upsert mode, or change the slug",
		Code:    "DB001",
	}},
	{"unique constraint", UserMessage{
		Message: "This value must be unique but already exists",
		Action:  "Check for duplicate entries in your file",
		Code:    "DB002",
	}},
	{"violates unique", UserMessage{
		Message: "A duplicate value was found",
		Action:  "Review your data for duplicate slugs or SKUs",
		Code:    "DB002",
	}},
	{"foreign key", UserMessage{
		Message: "The referenced category does not exist",
		Action:  "Create the category first or fix the category column",
		Code:    "DB003",
	}},
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB004",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB005",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB007",
	}},

	// Validation
	{"name is required", UserMessage{
		Message: "Product name is empty",
		Action:  "Fill in the name column for every row",
		Code:    "VAL001",
	}},
	{"invalid price", UserMessage{
		Message: "Invalid price",
		Action:  "Use a plain decimal number such as 24.90",
		Code:    "VAL002",
	}},
	{"price must be zero or greater", UserMessage{
		Message: "Price cannot be negative",
		Action:  "Use a price of zero or more",
		Code:    "VAL002",
	}},
	{"category \"", UserMessage{
		Message: "Category not found",
		Action:  "Use an existing category name, slug or id",
		Code:    "VAL003",
	}},
	{"columns, got", UserMessage{
		Message: "Row has the wrong number of columns",
		Action:  "Check for unquoted commas in that row",
		Code:    "VAL004",
	}},
	{"invalid integer", UserMessage{
		Message: "Invalid whole number",
		Action:  "Use a whole number such as 12",
		Code:    "VAL005",
	}},

	// Files
	{"file too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"request body too large", UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}},
	{"read csv", UserMessage{
		Message: "File is not a valid CSV",
		Action:  "Ensure file is comma-separated with consistent columns",
		Code:    "FILE002",
	}},
	{"open workbook", UserMessage{
		Message: "File is not a valid Excel workbook",
		Action:  "Save the file as .xlsx or export it as CSV",
		Code:    "FILE003",
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Please select a CSV or XLSX file to upload",
		Code:    "FILE004",
	}},
	{"unsupported format", UserMessage{
		Message: "Unsupported file format",
		Action:  "Use csv or xlsx",
		Code:    "FILE005",
	}},

	// Auth
	{"invalid token", UserMessage{
		Message: "Your session is invalid or has expired",
		Action:  "Sign in again",
		Code:    "AUTH001",
	}},
	{"missing token", UserMessage{
		Message: "You are not signed in",
		Action:  "Sign in again",
		Code:    "AUTH001",
	}},
	{"not an admin", UserMessage{
		Message: "Administrator access is required",
		Action:  "Ask an administrator to grant you access",
		Code:    "AUTH002",
	}},

	// Requests
	{"invalid json", UserMessage{
		Message: "The request body is not valid JSON",
		Action:  "Send a JSON object with mode and products",
		Code:    "REQ001",
	}},
	{"context canceled", UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "REQ002",
	}},
	{"context deadline exceeded", UserMessage{
		Message: "Request timed out",
		Action:  "Please try again",
		Code:    "REQ003",
	}},
	{"invalid date", UserMessage{
		Message: "Invalid query parameter",
		Action:  "Use dates in YYYY-MM-DD format",
		Code:    "REQ004",
	}},
	{"invalid status", UserMessage{
		Message: "Invalid query parameter",
		Action:  "Use draft, active or archived",
		Code:    "REQ004",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Please try again later",
		Code:    "DB006",
	}},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	msg := MapError(fmt.Errorf("import: %w", ErrNoValidRows))
//	// msg.Code == "IMP002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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

// IsUserFacing reports whether err maps to a specific message rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
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
