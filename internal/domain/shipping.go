package domain

import (
	"fmt"
	"strings"
)

// ShippingMethod is the delivery option selected on the checkout form
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// ParseShippingMethod accepts the form value case-insensitively; blank means standard
func ParseShippingMethod(raw string) (ShippingMethod, error) {
	switch ShippingMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ShippingStandard:
		return ShippingStandard, nil
	case ShippingExpress:
		return ShippingExpress, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownShippingMethod, raw)
	}
}

func (m ShippingMethod) String() string {
	return string(m)
}
