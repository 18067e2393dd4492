package collector

import (
	"context"
	"sync/atomic"

	"BazaarWatch/internal/model"
)

// MockFetcher returns a fixed response or error for development and testing.
type MockFetcher struct {
	Response *model.BazaarResponse
	Err      error
	// Gate, when set, blocks FetchBazaar until it is closed or ctx ends.
	Gate  chan struct{}
	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchBazaar(ctx context.Context) (*model.BazaarResponse, error) {
	m.calls.Add(1)
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, &NetworkError{Err: ctx.Err()}
		}
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

// Calls reports how many fetches were made.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }
