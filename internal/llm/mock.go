package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned responses in FIFO order and records all requests.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	models    []string
	fallback  func(Request) MockResponse
	Calls     []Request
}

// NewMockProvider creates a MockProvider with the given canned responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses}
}

// MockText is a canned plain-text completion.
func MockText(text string) MockResponse {
	return MockResponse{Content: json.RawMessage(text)}
}

// Generate returns the next canned response. With an empty queue it asks
// the fallback, if any, and otherwise fails with ErrProviderUnavailable.
func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.fallback != nil:
		resp = m.fallback(req)
	default:
		return nil, &ErrProviderUnavailable{Provider: ProviderMock}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}

	content := resp.Content
	if req.Schema != nil || req.JSON {
		var err error
		if content, err = checkStructured(req, content, "end"); err != nil {
			return nil, err
		}
	}

	return &Response{
		Content:    content,
		Usage:      resp.Usage,
		Model:      modelFor(req, "mock"),
		StopReason: "end",
	}, nil
}

func (m *MockProvider) Name() string { return ProviderMock }

// ModelID returns "mock".
func (m *MockProvider) ModelID() string { return "mock" }

// SetModels sets the ids ListModels reports.
func (m *MockProvider) SetModels(ids ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models = ids
}

// ListModels reports the ids given to SetModels, or just "mock".
func (m *MockProvider) ListModels(context.Context) ([]ModelInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := m.models
	if len(ids) == 0 {
		ids = []string{"mock"}
	}
	out := make([]ModelInfo, len(ids))
	for i, id := range ids {
		out[i] = ModelInfo{ID: id, Provider: ProviderMock}
	}
	return out, nil
}

// AddResponse appends a canned response to the queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
