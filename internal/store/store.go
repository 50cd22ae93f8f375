// Package store keeps the cart contents of a single shopping session.
package store

import (
	"errors"
)

// Common errors returned by the store
var (
	ErrInvalidProductID = errors.New("invalid product id")
)

// ProductLookup reports whether a product id exists in the catalog
type ProductLookup interface {
	Has(id string) bool
}

// CartStore defines the cart mutations available to a session
type CartStore interface {
	// AddOne increments the quantity of productID, creating the entry at 1
	AddOne(productID string) error

	// SetQuantity parses raw like a form input and stores the result.
	// A non-positive or unparsable value removes the entry.
	SetQuantity(productID string, raw string) error

	// SetQuantityInt stores qty, removing the entry when qty <= 0
	SetQuantityInt(productID string, qty int) error

	// IsEmpty reports whether the cart has no entries
	IsEmpty() bool

	// Snapshot returns an independent copy of the cart contents
	Snapshot() map[string]int

	// Clear removes every entry
	Clear()
}

var _ CartStore = (*Cart)(nil)
