package upstream

import (
	"context"
	"encoding/json"
	"sync"
)

// MockService implements Service for handler tests. Identities are handed out
// round-robin so fanout tests can observe rotation across calls.
type MockService struct {
	mu sync.Mutex

	Info          json.RawMessage
	InfoErr       error
	Backends      []string
	Frontends     []string
	BackendErrAt  map[int]error
	FrontendErrAt map[int]error

	backendCalls  int
	frontendCalls int
	calls         []string
}

// NewMockService creates a mock answering with a fixed backend info document.
func NewMockService() *MockService {
	return &MockService{
		Info:      json.RawMessage(`{"role":"backend","message":"Hello from Backend","hostname":"backend-1","timestamp":"2024-01-15T10:30:00.000Z"}`),
		Backends:  []string{"backend-1", "backend-2"},
		Frontends: []string{"frontend-1", "frontend-2", "frontend-3"},
	}
}

// BackendInfo implements Service.
func (m *MockService) BackendInfo(_ context.Context) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, "backend-info")
	if m.InfoErr != nil {
		return nil, m.InfoErr
	}
	return m.Info, nil
}

// BackendIdentity implements Service.
func (m *MockService) BackendIdentity(_ context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.backendCalls
	m.backendCalls++
	m.calls = append(m.calls, "backend")
	if err := m.BackendErrAt[n]; err != nil {
		return nil, err
	}
	return &Identity{Role: "backend", Hostname: pick(m.Backends, n)}, nil
}

// FrontendIdentity implements Service.
func (m *MockService) FrontendIdentity(_ context.Context) (*Identity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := m.frontendCalls
	m.frontendCalls++
	m.calls = append(m.calls, "frontend")
	if err := m.FrontendErrAt[n]; err != nil {
		return nil, err
	}
	return &Identity{Role: "frontend", Hostname: pick(m.Frontends, n)}, nil
}

// Calls returns the order in which peers were called.
func (m *MockService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func pick(names []string, n int) string {
	if len(names) == 0 {
		return ""
	}
	return names[n%len(names)]
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
