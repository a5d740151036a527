package naver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIBaseURL     = "https://naveropenapi.apigw.ntruss.com"
	defaultTransitBaseURL = "https://map.naver.com"

	drivingPath    = "/map-direction/v1/driving"
	driving15Path  = "/map-direction-15/v1/driving"
	staticMapPath  = "/map-static/v2/raster"
	transitPath    = "/v5/api/transit/directions/point-to-point"
	headerKeyID    = "X-NCP-APIGW-API-KEY-ID"
	headerKey      = "X-NCP-APIGW-API-KEY"
	userAgent      = "map-api/1.0 (https://github.com/YONSEI-TPLAB/map-api)"
	defaultTimeout = 30 * time.Second
)

// ErrInvalidWaypoints is returned when the driving endpoint is requested with
// a waypoint count other than 5 or 15.
var ErrInvalidWaypoints = errors.New("num_waypoints should be 5 or 15")

// APIRequestError is returned when an endpoint answers with a non-2xx status.
type APIRequestError struct {
	StatusCode int
	URL        string
}

func (e *APIRequestError) Error() string {
	return fmt.Sprintf("naver api request failed with status %d", e.StatusCode)
}

// Credentials are the two API gateway secrets sent to the official endpoints.
// Empty values are sent as-is; the gateway rejects them.
type Credentials struct {
	KeyID string
	Key   string
}

// Client talks to the official Naver Maps API gateway and the unofficial
// transit directions endpoint.
type Client struct {
	httpClient  *http.Client
	creds       Credentials
	apiBase     string
	transitBase string
	logger      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURLs points the client at different hosts, e.g. a test server.
func WithBaseURLs(apiBase, transitBase string) Option {
	return func(c *Client) {
		c.apiBase = strings.TrimRight(apiBase, "/")
		c.transitBase = strings.TrimRight(transitBase, "/")
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a client with explicit credentials.
func NewClient(creds Credentials, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		creds:       creds,
		apiBase:     defaultAPIBaseURL,
		transitBase: defaultTransitBaseURL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DrivingURL returns the driving endpoint for the given waypoint capacity.
func (c *Client) DrivingURL(numWaypoints int) (string, error) {
	switch numWaypoints {
	case 5:
		return c.apiBase + drivingPath, nil
	case 15:
		return c.apiBase + driving15Path, nil
	default:
		return "", fmt.Errorf("%w (got %d)", ErrInvalidWaypoints, numWaypoints)
	}
}

// FetchDriving requests driving directions for one query string built by
// the params package.
func (c *Client) FetchDriving(ctx context.Context, numWaypoints int, query string) (*DrivingResponse, error) {
	endpoint, err := c.DrivingURL(numWaypoints)
	if err != nil {
		return nil, err
	}

	body, err := c.get(ctx, endpoint, query, true)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch driving directions: %w", err)
	}

	var resp DrivingResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode driving JSON: %w", err)
	}
	return &resp, nil
}

// FetchTransit requests public transit directions. The endpoint is not part
// of the official API and takes no credentials.
func (c *Client) FetchTransit(ctx context.Context, query string) (*TransitResponse, error) {
	body, err := c.get(ctx, c.transitBase+transitPath, query, false)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transit directions: %w", err)
	}

	var resp TransitResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode transit JSON: %w", err)
	}
	return &resp, nil
}

// FetchStaticMap downloads a raster map image and returns its bytes and
// content type.
func (c *Client) FetchStaticMap(ctx context.Context, query string) ([]byte, string, error) {
	resp, err := c.do(ctx, c.apiBase+staticMapPath, query, true)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch static map: %w", err)
	}
	defer resp.Body.Close()

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read static map body: %w", err)
	}
	return img, resp.Header.Get("Content-Type"), nil
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, endpoint, query string, auth bool) ([]byte, error) {
	resp, err := c.do(ctx, endpoint, query, auth)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, endpoint, query string, auth bool) (*http.Response, error) {
	reqURL := endpoint
	if query != "" {
		reqURL += "?" + EncodeQuery(query)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	if auth {
		req.Header.Set(headerKeyID, c.creds.KeyID)
		req.Header.Set(headerKey, c.creds.Key)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("naver request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &APIRequestError{StatusCode: resp.StatusCode, URL: endpoint}
	}
	return resp, nil
}

// EncodeQuery percent-encodes the values of a raw key=value&... query while
// keeping the segment order. Repeated keys (static map markers) are kept.
func EncodeQuery(raw string) string {
	segs := strings.Split(raw, "&")
	for i, s := range segs {
		k, v, found := strings.Cut(s, "=")
		if !found {
			segs[i] = url.QueryEscape(s)
			continue
		}
		segs[i] = url.QueryEscape(k) + "=" + url.QueryEscape(v)
	}
	return strings.Join(segs, "&")
}
