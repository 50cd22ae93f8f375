package checkout

import "errors"

var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to checkout")
	ErrPaymentFailed       = errors.New("payment failed")
	IllegalTransitionError = errors.New("illegal transition of checkout status")
)

// FieldError is a failed check on one form field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}
