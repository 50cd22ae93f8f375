package domain

// FormInput is the customer-entered part of a checkout attempt
type FormInput struct {
	Name    string
	Email   string
	Payment PaymentDetails
}

// ValidationResult lists every failed check of one checkout attempt.
// FieldErrors is keyed by form field; Errors holds failures that are not
// tied to a field, such as an empty cart.
type ValidationResult struct {
	OK          bool              `json:"ok"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Errors      []string          `json:"errors,omitempty"`
}

type CheckoutStatus string

const (
	CheckoutStatusIdle       CheckoutStatus = "IDLE"
	CheckoutStatusValidating CheckoutStatus = "VALIDATING"
	CheckoutStatusRejected   CheckoutStatus = "REJECTED"
	CheckoutStatusApproved   CheckoutStatus = "APPROVED"
)

func (s CheckoutStatus) IsTerminal() bool {
	return s == CheckoutStatusRejected || s == CheckoutStatusApproved
}

// String representation (for logging)
func (s CheckoutStatus) String() string {
	return string(s)
}
