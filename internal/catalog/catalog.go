// Package catalog holds the static product table of the storefront.
package catalog

import (
	"sort"

	"github.com/fjod/go_cart/netcart/internal/domain"
	"github.com/shopspring/decimal"
)

// Catalog is a read-only product lookup built once at startup
type Catalog struct {
	products map[string]domain.Product
}

// Default returns the demo storefront catalog
func Default() *Catalog {
	return New(
		domain.Product{ID: "p1", Title: "Wireless Earbuds", Company: "Acme Audio Co.", Price: decimal.RequireFromString("49.99")},
		domain.Product{ID: "p2", Title: "Smart Watch", Company: "ChronoTech", Price: decimal.RequireFromString("79.99")},
		domain.Product{ID: "p3", Title: "Portable Speaker", Company: "SoundWave", Price: decimal.RequireFromString("29.99")},
	)
}

// New builds a catalog from products. A later product with a duplicate ID replaces the earlier one.
func New(products ...domain.Product) *Catalog {
	c := &Catalog{products: make(map[string]domain.Product, len(products))}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *Catalog) Get(id string) (domain.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.products[id]
	return ok
}

// All returns the products ordered by ID
func (c *Catalog) All() []domain.Product {
	out := make([]domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
