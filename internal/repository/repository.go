// Package repository stores session state between requests.
package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_cart/netcart/internal/session"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository defines the interface for session state storage
type SessionRepository interface {
	// Get returns the stored state or ErrSessionNotFound
	Get(ctx context.Context, sessionID string) (session.State, error)

	// Save replaces the stored state and refreshes its expiry
	Save(ctx context.Context, sessionID string, st session.State) error

	// Delete removes the session; deleting a missing session is not an error
	Delete(ctx context.Context, sessionID string) error

	// Close releases background resources
	Close() error
}

func cloneState(st session.State) session.State {
	items := make(map[string]int, len(st.Items))
	for id, qty := range st.Items {
		items[id] = qty
	}
	st.Items = items
	if st.LastPayment != nil {
		p := *st.LastPayment
		st.LastPayment = &p
	}
	return st
}
