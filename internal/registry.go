package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const DefaultRegistryURL = "https://registry.npmjs.org/"

// RegistryResolver looks up the last release of a published package in an
// npm-compatible registry.
type RegistryResolver struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRegistryResolver(cfg RegistryConfig, client *http.Client) *RegistryResolver {
	base := cfg.URL
	if base == "" {
		base = DefaultRegistryURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &RegistryResolver{
		baseURL: base,
		token:   cfg.Token,
		client:  client,
	}
}

type registryDocument struct {
	Error    string                     `json:"error,omitempty"`
	DistTags map[string]string          `json:"dist-tags"`
	Versions map[string]registryVersion `json:"versions"`
}

type registryVersion struct {
	GitHead string `json:"gitHead,omitempty"`
}

func (r *RegistryResolver) LastRelease(ctx context.Context, m Manifest) (LastRelease, error) {
	endpoint := r.baseURL + url.PathEscape(m.Name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return LastRelease{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return LastRelease{}, fmt.Errorf("query registry: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return LastRelease{}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return LastRelease{}, fmt.Errorf("read registry response: %w", err)
	}

	var doc registryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		if resp.StatusCode >= 400 {
			return LastRelease{}, &RegistryError{Package: m.Name, StatusCode: resp.StatusCode}
		}
		return LastRelease{}, fmt.Errorf("decode registry response: %w", err)
	}
	if doc.Error != "" {
		return LastRelease{}, &RegistryError{Package: m.Name, StatusCode: resp.StatusCode, Message: doc.Error}
	}
	if resp.StatusCode >= 400 {
		return LastRelease{}, &RegistryError{Package: m.Name, StatusCode: resp.StatusCode}
	}

	latest := doc.DistTags["latest"]
	if latest == "" {
		return LastRelease{}, nil
	}

	return LastRelease{
		Version: latest,
		GitHead: doc.Versions[latest].GitHead,
	}, nil
}
