package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeFileAccess     ErrorType = "FILE_ACCESS"
	ErrTypeMalformedTable ErrorType = "MALFORMED_TABLE"
	ErrTypeDateParse      ErrorType = "DATE_PARSE"
	ErrTypeNumericParse   ErrorType = "NUMERIC_PARSE"
	ErrTypeRender         ErrorType = "RENDER"
	ErrTypeConfig         ErrorType = "CONFIG"
)

// Context keys used to locate the offending input.
const (
	KeyPath   = "path"
	KeyRow    = "row"
	KeyColumn = "column"
	KeyCell   = "cell"
	KeyFields = "fields"
)

// Sentinels for errors.Is. They match any AppError of the same type.
var (
	ErrFileAccess     = &AppError{Type: ErrTypeFileAccess}
	ErrMalformedTable = &AppError{Type: ErrTypeMalformedTable}
	ErrDateParse      = &AppError{Type: ErrTypeDateParse}
	ErrNumericParse   = &AppError{Type: ErrTypeNumericParse}
	ErrRender         = &AppError{Type: ErrTypeRender}
	ErrConfig         = &AppError{Type: ErrTypeConfig}
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError sentinel of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Type == e.Type
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Row returns the 0-based file row the error refers to, if any.
func (e *AppError) Row() (int, bool) {
	return e.intContext(KeyRow)
}

// Column returns the 0-based file column the error refers to, if any.
func (e *AppError) Column() (int, bool) {
	return e.intContext(KeyColumn)
}

func (e *AppError) intContext(key string) (int, bool) {
	v, ok := e.Context[key]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// TypeOf returns the ErrorType of the first AppError in err's chain, or ""
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// Helper functions for common error types

// NewFileAccessError creates an error for a path that cannot be read or written
func NewFileAccessError(path string, cause error) *AppError {
	return NewAppError(ErrTypeFileAccess, fmt.Sprintf("cannot access %s", path), cause).
		WithContext(KeyPath, path)
}

// NewMalformedTableError creates an error for a row whose width differs from the header
func NewMalformedTableError(row, want, got int) *AppError {
	return NewAppError(ErrTypeMalformedTable,
		fmt.Sprintf("row %d has %d cells, header has %d", row, got, want), nil).
		WithContext(KeyRow, row).
		WithContext("want_cells", want).
		WithContext("got_cells", got)
}

// NewBlankRowError creates an error for a blank line inside the table. Rows
// must be contiguous so that reported positions match the file.
func NewBlankRowError(row int) *AppError {
	return NewAppError(ErrTypeMalformedTable, fmt.Sprintf("row %d is blank", row), nil).
		WithContext(KeyRow, row)
}

// NewTableShapeError creates a malformed-table error that is not tied to one row
func NewTableShapeError(message string) *AppError {
	return NewAppError(ErrTypeMalformedTable, message, nil)
}

// NewDateParseError creates an error for a header cell that is not a date
func NewDateParseError(column int, cell string, cause error) *AppError {
	return NewAppError(ErrTypeDateParse,
		fmt.Sprintf("column %d: %q is not a dd/mm/yyyy date", column, cell), cause).
		WithContext(KeyRow, 0).
		WithContext(KeyColumn, column).
		WithContext(KeyCell, cell)
}

// NewNumericParseError creates an error for a depth or reading cell that is not numeric
func NewNumericParseError(row, column int, cell string, cause error) *AppError {
	return NewAppError(ErrTypeNumericParse,
		fmt.Sprintf("row %d, column %d: %q is not a number", row, column, cell), cause).
		WithContext(KeyRow, row).
		WithContext(KeyColumn, column).
		WithContext(KeyCell, cell)
}

// NewRenderError creates a rendering error
func NewRenderError(message string, cause error) *AppError {
	return NewAppError(ErrTypeRender, message, cause)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}
