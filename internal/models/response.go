package models

// ErrorResponse is the body for every non-2xx reply. Success responses carry
// the resource itself with no wrapper.
type ErrorResponse struct {
	Error  string      `json:"error"`
	Errors interface{} `json:"errors,omitempty"`
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{
		Error: message,
	}
}

// NewValidationErrorResponse creates a field-keyed validation error response
func NewValidationErrorResponse(errors map[string]string) ErrorResponse {
	return ErrorResponse{
		Error:  "Validation failed",
		Errors: errors,
	}
}

// MessageResponse is the one-field body used by the liveness endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// DiagnosticsReport is returned by the connectivity test endpoint. The status
// fields are human-readable strings meant for eyeballing in a browser, not for
// machine parsing.
type DiagnosticsReport struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	DatabaseURL      string   `json:"database_url"`
	DatabaseName     string   `json:"database_name"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
}
