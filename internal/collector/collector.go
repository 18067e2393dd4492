package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"BazaarWatch/internal/catalog"
)

// Collector runs the one-shot load of a catalog.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Load fetches the bazaar once and publishes the result into cat. On any
// failure cat is marked failed and keeps no products. There is no retry.
func (c *Collector) Load(ctx context.Context, cat *catalog.Catalog) error {
	if err := cat.BeginLoad(); err != nil {
		return err
	}

	resp, err := c.Fetcher.FetchBazaar(ctx)
	if err == nil && resp == nil {
		err = &ParseError{Err: fmt.Errorf("empty response")}
	}
	if err == nil && !resp.Success {
		err = &APIError{Cause: resp.Cause}
	}
	if err != nil {
		cat.Fail(err)
		return err
	}

	var updated time.Time
	if resp.LastUpdated > 0 {
		updated = time.UnixMilli(resp.LastUpdated)
	}
	cat.Assign(resp.Products, updated)

	log.Info().
		Str("source", c.Fetcher.Name()).
		Int("products", cat.Len()).
		Time("upstream_updated", updated).
		Msg("catalog loaded")
	return nil
}
