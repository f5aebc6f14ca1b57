package shipping

// Codes match domain's so handler can map a ShippingError without this
// package importing domain.
const (
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// ShippingError is returned by rate providers.
type ShippingError struct {
	Code    string
	Message string
}

func (e *ShippingError) Error() string        { return e.Message }
func (e *ShippingError) ErrorCode() string    { return e.Code }
func (e *ShippingError) ErrorMessage() string { return e.Message }

var (
	// ErrNoItems rejects a quote for an empty shipment.
	ErrNoItems = &ShippingError{Code: codeInvalid, Message: "At least one item is required"}

	// ErrNoRates means no configured rate serves the destination.
	ErrNoRates = &ShippingError{Code: codeUnavailable, Message: "No shipping rates available"}
)
