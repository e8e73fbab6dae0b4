package labelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/andareed/siftly-labeler/labeling"
	"github.com/andareed/siftly-labeler/logging"
	"github.com/andareed/siftly-labeler/samples"
)

const DefaultBaseURL = "http://localhost:5000"

// APIError is any non-2xx answer from the service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("label service: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("label service: %d %s", e.Status, e.Message)
}

// Client talks to the labeling service.
type Client struct {
	base *url.URL
	http *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default traced client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q needs scheme and host", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if q != nil {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var st StatusResponse
		_ = json.Unmarshal(data, &st)
		return &APIError{Status: resp.StatusCode, Message: st.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// FetchUnlabeled returns up to limit of the newest unlabeled samples,
// oldest first.
func (c *Client) FetchUnlabeled(ctx context.Context, limit int) ([]samples.Sample, error) {
	var resp UnlabeledResponse
	q := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, PathUnlabeled, q, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]samples.Sample, len(resp.SensorData))
	for i, r := range resp.SensorData {
		out[i] = r.Sample()
	}
	logging.Debugf("labelapi: fetched %d unlabeled (limit %d)", len(out), limit)
	return out, nil
}

// Label applies label to a single sample.
func (c *Client) Label(ctx context.Context, id int64, label labeling.Label) error {
	if !label.Valid() {
		return labeling.ErrInvalidLabel
	}
	return c.do(ctx, http.MethodPost, PathLabel, nil, LabelRequest{ID: id, Label: int(label)}, nil)
}

// BatchLabel applies label to every id. The call is all-or-nothing from
// the caller's point of view.
func (c *Client) BatchLabel(ctx context.Context, ids []int64, label labeling.Label) error {
	if !label.Valid() {
		return labeling.ErrInvalidLabel
	}
	if len(ids) == 0 {
		return nil
	}
	err := c.do(ctx, http.MethodPost, PathBatch, nil, BatchLabelRequest{IDs: ids, Label: int(label)}, nil)
	if err != nil {
		return err
	}
	logging.Debugf("labelapi: batch labeled %d as %s", len(ids), label)
	return nil
}

// Export returns every stored record, labeled or not.
func (c *Client) Export(ctx context.Context) ([]Record, error) {
	var resp ExportResponse
	if err := c.do(ctx, http.MethodGet, PathExport, nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.AllData, nil
}

// Ingest stores one raw reading.
func (c *Client) Ingest(ctx context.Context, r Reading) error {
	return c.do(ctx, http.MethodPost, PathIngest, nil, r, nil)
}

var (
	_ samples.Fetcher  = (*Client)(nil)
	_ labeling.Labeler = (*Client)(nil)
)
