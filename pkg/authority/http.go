package authority

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout bounds a remote table fetch.
const DefaultHTTPTimeout = 15 * time.Second

// HTTPSource fetches the CSV table from a URL.
type HTTPSource struct {
	URL        string
	httpClient *http.Client
}

// NewHTTPSource creates a source with a default client.
func NewHTTPSource(url string) *HTTPSource {
	return NewHTTPSourceWithClient(url, nil)
}

// NewHTTPSourceWithClient creates a source with a custom HTTP client.
// Useful for testing with mock servers
func NewHTTPSourceWithClient(url string, client *http.Client) *HTTPSource {
	if client == nil {
		client = &http.Client{Timeout: DefaultHTTPTimeout}
	}
	return &HTTPSource{URL: url, httpClient: client}
}

func (s *HTTPSource) Name() string { return "http" }

// Load downloads and parses the table.
func (s *HTTPSource) Load(ctx context.Context) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch authority table: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("authority endpoint returned status %d: %s", resp.StatusCode, string(body))
	}
	return ReadCSV(resp.Body)
}
