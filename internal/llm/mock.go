package llm

import (
	"context"
	"sync"
)

// MockClient permite tests sin llamar a un LLM real.
// Si Handler esta definido tiene prioridad; si no, devuelve Responses en orden
// y repite Response cuando se agotan.
type MockClient struct {
	Response  string
	Err       error
	Responses []string
	Handler   func(prompt string, opts Options) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall registra un prompt recibido por el mock.
type MockCall struct {
	Prompt string
	Opts   Options
}

func (m *MockClient) Generate(ctx context.Context, prompt string, opts Options) (string, error) {
	m.mu.Lock()
	idx := len(m.calls)
	m.calls = append(m.calls, MockCall{Prompt: prompt, Opts: opts})
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Handler != nil {
		return m.Handler(prompt, opts)
	}
	if idx < len(m.Responses) {
		return m.Responses[idx], nil
	}
	return m.Response, m.Err
}

// Calls devuelve una copia de las llamadas recibidas.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}
