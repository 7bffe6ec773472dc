package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/archboard/archboard-backend/internal/logger"
)

type httpDirectory struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger
}

func NewHTTPDirectory(baseURL string, baseLog *logger.Logger) Directory {
	return &httpDirectory{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     baseLog.With("directory", "http"),
	}
}

func (d *httpDirectory) Resolve(ctx context.Context, ref string) (*Entity, error) {
	endpoint := fmt.Sprintf("%s/entities/by-ref?ref=%s", d.baseURL, url.QueryEscape(ref))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog resolve: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog resolve: unexpected status %d", resp.StatusCode)
	}
	var e Entity
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return nil, fmt.Errorf("catalog resolve: decode: %w", err)
	}
	return &e, nil
}

func (d *httpDirectory) List(ctx context.Context) ([]Entity, error) {
	endpoint := d.baseURL + "/entities"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog list: unexpected status %d", resp.StatusCode)
	}
	var out []Entity
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("catalog list: decode: %w", err)
	}
	return out, nil
}
