package checkout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/fjod/go_cart/netcart/internal/domain"
)

// Form field keys used in ValidationResult.FieldErrors
const (
	FieldName          = "name"
	FieldEmail         = "email"
	FieldCardNumber    = "card_number"
	FieldUPIID         = "upi_id"
	FieldPaymentMethod = "payment_method"
)

const (
	MsgNameRequired      = "Name required"
	MsgEmailInvalid      = "Valid email required"
	MsgCartEmpty         = "Cart is empty"
	MsgCardNumberInvalid = "Enter a valid card number"
	MsgUPIIDInvalid      = "Enter a valid UPI ID"
	MsgPaymentMissing    = "Select a payment method"
)

const minCardNumberLength = 8

// nonSpace excludes Unicode separators and BOM as well as ASCII whitespace
const nonSpace = `[^\s\p{Z}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + nonSpace + `+@` + nonSpace + `+\.` + nonSpace + `+$`)

// Validator checks a checkout form. Every rule runs on every call so the
// customer sees all problems at once.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(form domain.FormInput, cartEmpty bool) domain.ValidationResult {
	var errs []FieldError

	if strings.TrimSpace(form.Name) == "" {
		errs = append(errs, FieldError{Field: FieldName, Message: MsgNameRequired})
	}
	if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		errs = append(errs, FieldError{Field: FieldEmail, Message: MsgEmailInvalid})
	}
	if fe, ok := validatePayment(form.Payment); !ok {
		errs = append(errs, fe)
	}

	res := domain.ValidationResult{OK: true}
	if len(errs) > 0 {
		res.OK = false
		res.FieldErrors = make(map[string]string, len(errs))
		for _, fe := range errs {
			res.FieldErrors[fe.Field] = fe.Message
		}
	}
	if cartEmpty {
		res.OK = false
		res.Errors = append(res.Errors, MsgCartEmpty)
	}
	return res
}

// validatePayment applies only the rule of the selected method
func validatePayment(details domain.PaymentDetails) (FieldError, bool) {
	switch d := details.(type) {
	case domain.CardDetails:
		if utf8.RuneCountInString(strings.TrimSpace(d.Number)) < minCardNumberLength {
			return FieldError{Field: FieldCardNumber, Message: MsgCardNumberInvalid}, false
		}
	case domain.UPIDetails:
		id := strings.TrimSpace(d.ID)
		if id == "" || !strings.Contains(id, "@") {
			return FieldError{Field: FieldUPIID, Message: MsgUPIIDInvalid}, false
		}
	case domain.PayPalDetails:
	default:
		return FieldError{Field: FieldPaymentMethod, Message: MsgPaymentMissing}, false
	}
	return FieldError{}, true
}
