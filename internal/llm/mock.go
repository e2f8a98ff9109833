package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead of
// a response.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records what it was
// asked. Once the script runs out every call fails as unavailable.
type MockProvider struct {
	mu       sync.Mutex
	script   []MockResponse
	Calls    []Request
	Purposes []string
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) ModelID() string { return ProviderMock }

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, PurposeFrom(ctx))
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      ProviderMock,
		StopReason: StopEnd,
	}, nil
}

// AddResponse appends to the script.
func (m *MockProvider) AddResponse(r MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, r)
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
