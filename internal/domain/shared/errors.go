package shared

// Error codes used across the API. Handlers map these to HTTP status codes.
const (
	CodeMissingTenant      = "MISSING_TENANT"
	CodeInvalidTenant      = "INVALID_TENANT"
	CodeUnknownTenant      = "UNKNOWN_TENANT"
	CodeNotFound           = "NOT_FOUND"
	CodeConnectionError    = "CONNECTION_ERROR"
	CodeQueryError         = "QUERY_ERROR"
	CodeValidationError    = "VALIDATION_ERROR"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// DomainError represents a domain-level error with a stable code and a
// user-facing message. An optional wrapped cause carries the underlying
// driver or transport error for the debug `details` field.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Details returns the underlying cause's message, or empty when none exists
func (e *DomainError) Details() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// WrapDomainError creates a domain error wrapping an underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}
