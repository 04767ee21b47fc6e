package source

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"boardgame-catalog/internal/catalog"
)

// HTTP fetches the catalog as a JSON array from a URL. There is no retry.
type HTTP struct {
	url    string
	client *http.Client
}

// NewHTTP returns an HTTP source. A nil client means a client with no timeout.
func NewHTTP(url string, client *http.Client) *HTTP {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTP{url: url, client: client}
}

func (s *HTTP) Name() string {
	return "http " + s.url
}

func (s *HTTP) Fetch(ctx context.Context) ([]catalog.RawRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w %d: %s", ErrBadStatus, resp.StatusCode, string(body))
	}

	return catalog.DecodeRecords(resp.Body)
}
