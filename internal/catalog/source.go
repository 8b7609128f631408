// Package catalog imports games from the external catalog feed into the
// local store, skipping entries that were already imported.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ExternalGame is one entry of the external catalog feed.
type ExternalGame struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Publishers []string `json:"publishers"`
	Genres     []string `json:"genres"`
}

// Source yields the external catalog as a finite list.
type Source interface {
	Fetch(ctx context.Context) ([]ExternalGame, error)
}

// HTTPSource fetches the catalog as JSON over HTTP.
type HTTPSource struct {
	url    string
	client *http.Client
}

// NewHTTPSource creates a source reading from the given URL.
func NewHTTPSource(url string) *HTTPSource {
	return &HTTPSource{
		url: url,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads and decodes the catalog feed.
func (s *HTTPSource) Fetch(ctx context.Context) ([]ExternalGame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog fetch failed (status %d)", resp.StatusCode)
	}

	var games []ExternalGame
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode catalog feed: %w", err)
	}
	return games, nil
}

// Ensure HTTPSource implements Source
var _ Source = (*HTTPSource)(nil)
