// internal/domain/catalog/source.go
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
)

//go:embed assets/*.json
var embeddedAssets embed.FS

// DefaultAssets returns the static catalog files built into the binary
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embeddedAssets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Source produces one upstream collection of products
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Product, error)
}

// AssetSource reads a static JSON array of product records
type AssetSource struct {
	fsys fs.FS
	path string
}

// NewAssetSource creates a source for the file at path inside fsys
func NewAssetSource(fsys fs.FS, path string) *AssetSource {
	return &AssetSource{fsys: fsys, path: path}
}

// Name returns the asset path
func (s *AssetSource) Name() string { return s.path }

// Fetch reads and normalizes the asset
func (s *AssetSource) Fetch(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, s.path)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", s.path, err)
	}

	var records []sourceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode asset %s: %w", s.path, err)
	}

	return normalizeAll(records), nil
}

// RemoteSource reads a demo API endpoint answering {"products": [...]}
type RemoteSource struct {
	client *http.Client
	url    string
}

// NewRemoteSource creates a source for url
func NewRemoteSource(client *http.Client, url string) *RemoteSource {
	return &RemoteSource{client: client, url: url}
}

// Name returns the endpoint URL
func (s *RemoteSource) Name() string { return s.url }

type remotePage struct {
	Products []sourceRecord `json:"products"`
}

// Fetch performs the GET and normalizes the products array
func (s *RemoteSource) Fetch(ctx context.Context) ([]Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", s.url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("get %s: unexpected status %d", s.url, resp.StatusCode)
	}

	var page remotePage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.url, err)
	}

	return normalizeAll(page.Products), nil
}

func normalizeAll(records []sourceRecord) []Product {
	out := make([]Product, 0, len(records))
	for _, r := range records {
		if p, ok := r.normalize(); ok {
			out = append(out, p)
		}
	}
	return out
}
