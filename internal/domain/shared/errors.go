package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is allows errors.Is comparison by error code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidTransition   = NewDomainError("INVALID_TRANSITION", "Transition not allowed from current state")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient on-hand stock")
	ErrInsufficientAvail   = NewDomainError("INSUFFICIENT_AVAILABLE", "Insufficient available stock")
	// ErrInsufficientLayers signals a ledger/valuation desync. It is a data
	// integrity fault, not a business error, and must be escalated rather than
	// silently retried.
	ErrInsufficientLayers = NewDomainError("INSUFFICIENT_LAYERS", "Valuation layers cannot cover requested quantity")
	ErrAlreadyClaimed     = NewDomainError("ALREADY_CLAIMED", "Operation was already performed for this idempotency key")
	ErrSequenceConflict   = NewDomainError("SEQUENCE_CONFLICT", "Document sequence allocation conflict")
	ErrStorageUnavailable = NewDomainError("STORAGE_UNAVAILABLE", "Storage is unavailable for the current attempt")
)
