package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"BazaarWatch/internal/model"
)

// DefaultBazaarURL is the public SkyBlock bazaar endpoint.
const DefaultBazaarURL = "https://api.hypixel.net/skyblock/bazaar"

// HypixelFetcher implements Fetcher against the public bazaar endpoint.
type HypixelFetcher struct {
	URL    string
	Client *http.Client
}

// NewHypixelFetcher creates a fetcher with optional proxy support.
func NewHypixelFetcher(endpoint, proxyURL string, timeout time.Duration) *HypixelFetcher {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if endpoint == "" {
		endpoint = DefaultBazaarURL
	}
	return &HypixelFetcher{
		URL: endpoint,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *HypixelFetcher) Name() string { return "hypixel" }

// FetchBazaar performs one GET and decodes the body. It does not inspect the
// payload's success flag; that is the loader's job.
func (f *HypixelFetcher) FetchBazaar(ctx context.Context) (*model.BazaarResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	log.Debug().
		Str("size", humanize.Bytes(uint64(len(body)))).
		Dur("took", time.Since(start)).
		Msg("bazaar response received")

	var payload model.BazaarResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &payload, nil
}
