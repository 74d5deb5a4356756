package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dl-alexandre/chspool/internal/logging"
	"github.com/dl-alexandre/chspool/internal/types"
	"github.com/dl-alexandre/chspool/internal/utils"
	"github.com/dl-alexandre/chspool/pkg/version"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 4096

// Client sends queries to the ClickHouse HTTP interface
type Client struct {
	endpoint    string
	credentials types.Credentials
	httpClient  *http.Client
	logger      logging.Logger
}

// Options configures a Client
type Options struct {
	Endpoint    string
	Credentials types.Credentials
	Timeout     time.Duration
	// Transport overrides http.DefaultTransport, e.g. with a debug transport
	Transport http.RoundTripper
	Logger    logging.Logger
}

// NewClient creates a client that never follows redirects
func NewClient(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = utils.QueryTimeout
	}
	return &Client{
		endpoint:    opts.Endpoint,
		credentials: opts.Credentials,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: opts.Transport,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logger,
	}
}

// StatusError is returned for 4xx and 5xx responses
type StatusError struct {
	StatusCode int
	Status     string
	URL        string
	QueryID    string
	Body       string
}

func (e *StatusError) Error() string {
	kind := "Client"
	if e.StatusCode >= 500 {
		kind = "Server"
	}
	reason := strings.TrimSpace(strings.TrimPrefix(e.Status, fmt.Sprint(e.StatusCode)))
	if reason == "" {
		reason = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%d %s Error: %s for url: %s", e.StatusCode, kind, reason, e.URL)
}

// RequestError is returned when no response was received at all
type RequestError struct {
	URL     string
	QueryID string
	Err     error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit the client deadline
func (e *RequestError) Timeout() bool {
	var netErr interface{ Timeout() bool }
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// Query runs query and returns the raw response body
func (c *Client) Query(ctx context.Context, query string) (string, error) {
	queryID := uuid.New().String()
	logger := c.logger.WithTraceID(queryID)

	reqURL, err := withQueryID(c.endpoint, queryID)
	if err != nil {
		return "", &RequestError{URL: c.endpoint, QueryID: queryID, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(query))
	if err != nil {
		return "", &RequestError{URL: c.endpoint, QueryID: queryID, Err: err}
	}
	req.SetBasicAuth(c.credentials.Username, c.credentials.Password)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("User-Agent", version.Get().UserAgent())

	logger.Debug("Sending query",
		logging.F("url", c.endpoint),
		logging.F("queryId", queryID),
		logging.F("username", c.credentials.Username),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &RequestError{URL: reqURL, QueryID: queryID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			URL:        reqURL,
			QueryID:    queryID,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &RequestError{URL: reqURL, QueryID: queryID, Err: fmt.Errorf("read response: %w", err)}
	}

	logger.Debug("Query completed",
		logging.F("status", resp.StatusCode),
		logging.F("bytes", len(body)),
		logging.F("duration_ms", time.Since(start).Milliseconds()),
	)
	return string(body), nil
}

// DistributedTables lists every Distributed table and its data path
func (c *Client) DistributedTables(ctx context.Context) ([]types.TableEntry, error) {
	body, err := c.Query(ctx, utils.DistributedTablesQuery)
	if err != nil {
		return nil, err
	}
	return ParseTables(body)
}

// ErrInvalidURL is wrapped by the RequestError of an endpoint that cannot be
// sent to
var ErrInvalidURL = errors.New("invalid url")

func withQueryID(endpoint, queryID string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidURL, endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w %q: no http or https scheme supplied", ErrInvalidURL, endpoint)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w %q: no host supplied", ErrInvalidURL, endpoint)
	}
	q := u.Query()
	q.Set("query_id", queryID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
