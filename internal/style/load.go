package style

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// DefaultBaseStyle is the public MapLibre demo style; it needs no API key.
const DefaultBaseStyle = "https://demotiles.maplibre.org/style.json"

// maxStyleSize bounds the size of a fetched style document.
const maxStyleSize = 32 << 20

// LoadDocument reads a style from a local path or an http(s) URL.
func LoadDocument(ctx context.Context, location string) (*Document, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return fetchDocument(ctx, location)
	}
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("reading style: %w", err)
	}
	return ParseDocument(data)
}

func fetchDocument(ctx context.Context, url string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching style: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching style: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching style: %s returned %s", url, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStyleSize))
	if err != nil {
		return nil, fmt.Errorf("fetching style: %w", err)
	}
	return ParseDocument(data)
}
