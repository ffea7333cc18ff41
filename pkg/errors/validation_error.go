package custom_error

import "fmt"

// ValidationError rejects an operation before any write happens. AssetID
// names the specific unit that failed so the caller can point the user at it.
type ValidationError struct {
	AssetID string
	Reason  string
}

func (e *ValidationError) Error() string {
	if e.AssetID == "" {
		return e.Reason
	}
	return fmt.Sprintf("unit %s: %s", e.AssetID, e.Reason)
}

func NewValidationError(assetID, reason string) *ValidationError {
	return &ValidationError{AssetID: assetID, Reason: reason}
}
