package collector

import (
	"context"

	"BazaarWatch/internal/model"
)

// Fetcher defines the interface for fetching the bazaar snapshot.
type Fetcher interface {
	FetchBazaar(ctx context.Context) (*model.BazaarResponse, error)
	Name() string
}
