// Package geodata loads the capital-coordinates reference table and the world
// geometry, from either an HTTP URL or a local file.
package geodata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/adapter/csvfile"
	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
)

// Resource names used in errors and metric labels.
const (
	ResourceCapitals = "capitals"
	ResourceWorld    = "world"
)

const maxResourceBytes = 32 << 20

var errNotTopology = errors.New("not a TopoJSON topology")

// Client fetches reference resources over HTTP or from disk.
type Client struct {
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a reference data client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Capitals loads and parses the capitals reference table from src.
func (c *Client) Capitals(ctx context.Context, src string) ([]domain.ReferenceGeoRow, error) {
	data, err := c.fetch(ctx, ResourceCapitals, src)
	if err != nil {
		return nil, err
	}
	return ParseCapitals(src, data)
}

// ParseCapitals decodes a capitals CSV into reference rows.
func ParseCapitals(src string, data []byte) ([]domain.ReferenceGeoRow, error) {
	tbl, _, err := csvfile.Decode(src, data)
	if err != nil {
		return nil, &domain.FetchError{Resource: ResourceCapitals, Err: err}
	}
	rows, err := domain.ParseReference(tbl)
	if err != nil {
		return nil, &domain.FetchError{Resource: ResourceCapitals, Err: err}
	}
	return rows, nil
}

// World loads the world TopoJSON document from src and checks its type.
func (c *Client) World(ctx context.Context, src string) (json.RawMessage, error) {
	data, err := c.fetch(ctx, ResourceWorld, src)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.FetchError{Resource: ResourceWorld, Err: fmt.Errorf("decode topology: %w", err)}
	}
	if doc.Type != "Topology" {
		return nil, &domain.FetchError{Resource: ResourceWorld, Err: errNotTopology}
	}
	return json.RawMessage(data), nil
}

func (c *Client) fetch(ctx context.Context, resource, src string) ([]byte, error) {
	start := time.Now()
	data, err := c.read(ctx, src)
	c.metrics.FetchDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(resource, "error").Inc()
		return nil, &domain.FetchError{Resource: resource, Err: err}
	}
	c.metrics.FetchRequests.WithLabelValues(resource, "success").Inc()
	c.logger.Debug("reference resource fetched", "resource", resource, "source", src, "bytes", len(data))
	return data, nil
}

func (c *Client) read(ctx context.Context, src string) ([]byte, error) {
	if !isURL(src) {
		return os.ReadFile(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxResourceBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResourceBytes)
	}
	return body, nil
}

func isURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
