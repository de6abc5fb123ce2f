package speech

import (
	"context"
	"sync"
	"time"

	"awesometts/internal/audio"
)

// MockEngine reports a fixed voice list and writes silent WAV files
type MockEngine struct {
	mu       sync.Mutex
	voices   []Voice
	requests []Request
	err      error
}

func NewMockEngine(voices ...string) *MockEngine {
	m := &MockEngine{}
	for _, name := range voices {
		m.voices = append(m.voices, Voice{Name: name})
	}
	return m
}

// FailWith makes every subsequent call return err.
func (m *MockEngine) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Requests returns the synthesis requests received so far.
func (m *MockEngine) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}

func (m *MockEngine) Name() string { return EngineTypeMock.String() }

func (m *MockEngine) Voices(ctx context.Context) ([]Voice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return append([]Voice(nil), m.voices...), nil
}

func (m *MockEngine) SynthesizeToFile(ctx context.Context, req Request) error {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return err
	}

	// Roughly 60ms per character, enough to produce a non-trivial file
	return audio.WriteSilence(req.Path, time.Duration(len([]rune(req.Text)))*60*time.Millisecond)
}
