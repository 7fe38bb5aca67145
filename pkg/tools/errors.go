package tools

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mapgrid/mapmcp/pkg/mapbox"
	"github.com/mark3labs/mcp-go/mcp"
)

// APIError represents an error that occurred while communicating with a
// Mapbox API, with information to help agents recover.
type APIError struct {
	Service     string // The API name (e.g., "Directions", "Geocoding")
	StatusCode  int    // HTTP status code, 0 for transport failures
	Message     string // Error message
	Recoverable bool   // Whether the error can be recovered from
	Guidance    string // Guidance for agents on how to recover
}

// Error implements the error interface and provides a formatted error message.
func (e *APIError) Error() string {
	if e.Guidance != "" {
		return fmt.Sprintf("%s API error (%d): %s. %s", e.Service, e.StatusCode, e.Message, e.Guidance)
	}
	return fmt.Sprintf("%s API error (%d): %s", e.Service, e.StatusCode, e.Message)
}

// Common error guidance messages
const (
	GuidanceToken       = "Check that the access token is valid and has the required scopes."
	GuidanceRateLimit   = "Rate limit exceeded even after retries. Please wait a minute and try again."
	GuidanceNoRoute     = "No route could be found between the specified points. Try locations with accessible roads."
	GuidanceCoordinates = "Check that coordinates are \"longitude,latitude\" pairs within valid ranges."
	GuidanceGeneral     = "Please try again later or modify your request parameters."
	GuidanceNetwork     = "Check your internet connection and try again."
)

// NewAPIError creates a new APIError with guidance inferred from the status
// code when none is supplied.
func NewAPIError(service string, statusCode int, message, guidance string) *APIError {
	if guidance == "" {
		switch statusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			guidance = GuidanceToken
		case http.StatusTooManyRequests:
			guidance = GuidanceRateLimit
		case http.StatusUnprocessableEntity, http.StatusBadRequest:
			guidance = GuidanceCoordinates
		default:
			guidance = GuidanceGeneral
		}
	}

	return &APIError{
		Service:     service,
		StatusCode:  statusCode,
		Message:     message,
		Recoverable: statusCode != http.StatusUnauthorized && statusCode != http.StatusForbidden,
		Guidance:    guidance,
	}
}

// FromServiceError converts an error returned by the Mapbox client into an
// APIError for the named service. Transport-level failures get network
// guidance.
func FromServiceError(service string, err error) *APIError {
	var statusErr *mapbox.StatusError
	if errors.As(err, &statusErr) {
		return NewAPIError(service, statusErr.StatusCode, statusErr.Message, "")
	}
	return &APIError{
		Service:     service,
		Message:     err.Error(),
		Recoverable: true,
		Guidance:    GuidanceNetwork,
	}
}

// ErrorWithGuidance returns a properly formatted error response with agent
// guidance. The tool surfaces the failure as text; the server never crashes
// on an upstream error.
func ErrorWithGuidance(err *APIError) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("Error: %s\n\nGuidance: %s", err.Message, err.Guidance))
}

// ErrorResponse returns a plain textual error result.
func ErrorResponse(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(message)
}
