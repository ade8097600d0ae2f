package errors

import (
	"fmt"
	"net/http"

	"regionmap/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// ErrGeometryNotFound means the geodata API answered with a non-200 status
	ErrGeometryNotFound = NewBaseError(
		http.StatusNotFound,
		"GEOMETRY_NOT_FOUND",
		"No geometry available for this sub-region",
		"",
	)

	ErrRegionNotFound = NewBaseError(
		http.StatusNotFound,
		"REGION_NOT_FOUND",
		"No rendered region has this feature identifier",
		"",
	)

	ErrFeatureIDRequired = NewBaseError(
		http.StatusBadRequest,
		"FEATURE_ID_REQUIRED",
		"A feature identifier is required",
		"",
	)

	ErrTileNotFound = NewBaseError(
		http.StatusNotFound,
		"TILE_NOT_FOUND",
		"Tile not found",
		"",
	)

	ErrBasemapNotReady = NewBaseError(
		http.StatusServiceUnavailable,
		"BASEMAP_NOT_READY",
		"The basemap is not loaded yet",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// Validation error codes, one per rule of the regions payload
const (
	CodeRegionsMalformed      = "REGIONS_MALFORMED"
	CodeRegionsNotArray       = "REGIONS_NOT_ARRAY"
	CodeRegionNotObject       = "REGION_NOT_OBJECT"
	CodeTitleInvalid          = "TITLE_INVALID"
	CodeRegionIDsInvalid      = "REGION_IDS_INVALID"
	CodeRegionIDInvalid       = "REGION_ID_INVALID"
	CodePrimaryColorInvalid   = "PRIMARY_COLOR_INVALID"
	CodeSecondaryColorInvalid = "SECONDARY_COLOR_INVALID"
)

// ValidationError rejects a regions payload. Index is -1 for payload-level failures.
type ValidationError struct {
	Code   string
	Index  int
	Field  string
	Reason string
}

// NewValidationError creates a validation error for the element at index
func NewValidationError(code string, index int, field, reason string) *ValidationError {
	return &ValidationError{
		Code:   code,
		Index:  index,
		Field:  field,
		Reason: reason,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Details(), e.Reason)
}

// HTTPCode returns the HTTP status code
func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

// ErrorCode returns the business error code
func (e *ValidationError) ErrorCode() string {
	return e.Code
}

// Message returns the user-friendly error message
func (e *ValidationError) Message() string {
	return e.Reason
}

// Details returns the location of the offending value
func (e *ValidationError) Details() string {
	if e.Index < 0 {
		return "regions"
	}
	if e.Field == "" {
		return fmt.Sprintf("regions[%d]", e.Index)
	}

	return fmt.Sprintf("regions[%d].%s", e.Index, e.Field)
}

// FetchError is a transport failure while fetching one sub-region geometry
type FetchError struct {
	SubRegionID string
	err         error
}

// NewFetchError creates a fetch error for a sub-region id
func NewFetchError(subRegionID string, err error) *FetchError {
	return &FetchError{SubRegionID: subRegionID, err: err}
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return errors.Wrapf(e.err, "fetch geometry %s", e.SubRegionID).Error()
}

// Unwrap returns the transport error
func (e *FetchError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *FetchError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *FetchError) ErrorCode() string {
	return "GEOMETRY_FETCH_FAILED"
}

// Message returns the user-friendly error message
func (e *FetchError) Message() string {
	return "Geometry could not be fetched"
}

// Details returns detailed error information
func (e *FetchError) Details() string {
	return e.SubRegionID
}

// ParseError is a malformed geometry response body for one sub-region
type ParseError struct {
	SubRegionID string
	err         error
}

// NewParseError creates a parse error for a sub-region id
func NewParseError(subRegionID string, err error) *ParseError {
	return &ParseError{SubRegionID: subRegionID, err: err}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return errors.Wrapf(e.err, "parse geometry %s", e.SubRegionID).Error()
}

// Unwrap returns the decoding error
func (e *ParseError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *ParseError) HTTPCode() int {
	return http.StatusBadGateway
}

// ErrorCode returns the business error code
func (e *ParseError) ErrorCode() string {
	return "GEOMETRY_PARSE_FAILED"
}

// Message returns the user-friendly error message
func (e *ParseError) Message() string {
	return "Geometry response could not be parsed"
}

// Details returns detailed error information
func (e *ParseError) Details() string {
	return e.SubRegionID
}

// RenderSurfaceLoadError means the basemap runtime could not be initialized.
// It is fatal: no region can be rendered without it.
type RenderSurfaceLoadError struct {
	err error
}

// NewRenderSurfaceLoadError creates a render surface load error
func NewRenderSurfaceLoadError(err error) *RenderSurfaceLoadError {
	return &RenderSurfaceLoadError{err: err}
}

// Error implements the error interface
func (e *RenderSurfaceLoadError) Error() string {
	return errors.Wrap(e.err, "render surface failed to load").Error()
}

// Unwrap returns the underlying load error
func (e *RenderSurfaceLoadError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *RenderSurfaceLoadError) HTTPCode() int {
	return http.StatusServiceUnavailable
}

// ErrorCode returns the business error code
func (e *RenderSurfaceLoadError) ErrorCode() string {
	return "RENDER_SURFACE_LOAD_FAILED"
}

// Message returns the user-friendly error message
func (e *RenderSurfaceLoadError) Message() string {
	return "The map could not be initialized"
}

// Details returns detailed error information
func (e *RenderSurfaceLoadError) Details() string {
	return e.err.Error()
}
