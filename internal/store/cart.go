package store

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Cart implements CartStore in memory. Entries always have quantity >= 1.
type Cart struct {
	mu      sync.RWMutex
	catalog ProductLookup
	items   map[string]int // productID -> quantity
}

// NewCart creates an empty cart whose keys are checked against catalog
func NewCart(catalog ProductLookup) *Cart {
	return &Cart{
		catalog: catalog,
		items:   make(map[string]int),
	}
}

func (c *Cart) AddOne(productID string) error {
	if !c.catalog.Has(productID) {
		return fmt.Errorf("add %q: %w", productID, ErrInvalidProductID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[productID]++
	return nil
}

func (c *Cart) SetQuantity(productID string, raw string) error {
	return c.SetQuantityInt(productID, ParseQuantity(raw))
}

func (c *Cart) SetQuantityInt(productID string, qty int) error {
	if !c.catalog.Has(productID) {
		return fmt.Errorf("set quantity %q: %w", productID, ErrInvalidProductID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if qty <= 0 {
		delete(c.items, productID)
		return nil
	}
	c.items[productID] = qty
	return nil
}

func (c *Cart) IsEmpty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items) == 0
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cart) Snapshot() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]int, len(c.items))
	for id, qty := range c.items {
		out[id] = qty
	}
	return out
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]int)
}

// Load replaces the contents with items, dropping unknown ids and
// non-positive quantities so a restored cart keeps the entry invariant.
func (c *Cart) Load(items map[string]int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]int, len(items))
	for id, qty := range items {
		if qty > 0 && c.catalog.Has(id) {
			c.items[id] = qty
		}
	}
}

// ParseQuantity reads the leading integer of raw the way a browser's
// parseInt does: "3", " 3 ", "3abc" and "3.7" all give 3, and a 0x prefix
// switches to hex. Anything without a leading integer gives 0. Values past
// the int range saturate at math.MaxInt or math.MinInt.
func ParseQuantity(raw string) int {
	s := strings.TrimSpace(raw)
	neg := false
	if s != "" && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, isDigit := 10, isDecimalDigit
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, isDigit = 16, isHexDigit
		s = s[2:]
	}
	end := 0
	for end < len(s) && isDigit(s[end]) {
		end++
	}
	if end == 0 {
		return 0
	}

	digits := s[:end]
	if neg {
		digits = "-" + digits
	}
	// digits is well formed, so the only possible error is ErrRange, for
	// which ParseInt already returns the saturated bound.
	n, _ := strconv.ParseInt(digits, base, strconv.IntSize)
	return int(n)
}

func isDecimalDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDecimalDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
