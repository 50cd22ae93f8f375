package service

import (
	"context"
	"sync"

	"github.com/fjod/go_cart/netcart/internal/repository"
	"github.com/fjod/go_cart/netcart/internal/session"
)

// mockRepository stores states in a map and can be told to fail
type mockRepository struct {
	m       sync.Mutex
	states  map[string]session.State
	getErr  error
	saveErr error
	gets    int
	saves   int
}

func newMockRepository() *mockRepository {
	return &mockRepository{states: make(map[string]session.State)}
}

func (m *mockRepository) Get(_ context.Context, id string) (session.State, error) {
	m.m.Lock()
	defer m.m.Unlock()
	m.gets++
	if m.getErr != nil {
		return session.State{}, m.getErr
	}
	st, ok := m.states[id]
	if !ok {
		return session.State{}, repository.ErrSessionNotFound
	}
	return st, nil
}

func (m *mockRepository) Save(_ context.Context, id string, st session.State) error {
	m.m.Lock()
	defer m.m.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.states[id] = st
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id string) error {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.states, id)
	return nil
}

func (m *mockRepository) Close() error { return nil }

func (m *mockRepository) saveCount() int {
	m.m.Lock()
	defer m.m.Unlock()
	return m.saves
}
