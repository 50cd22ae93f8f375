package domain

import "errors"

var (
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
)
