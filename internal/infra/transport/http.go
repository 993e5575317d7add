package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"telefication/internal/domain/ports/adapter"
)

var _ adapter.Transport = (*HTTPTransport)(nil)

// maxBody caps how much of a backend response is read.
const maxBody = 1 << 20

// HTTPTransport issues single GET requests with a finite timeout. It never
// retries.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// NewHTTPTransportWithClient is used by tests to inject an httptest client.
// A client without a timeout gets the default one.
func NewHTTPTransportWithClient(c *http.Client) *HTTPTransport {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return &HTTPTransport{client: c}
}

// Get encodes params into endpoint's query string. Non-2xx statuses are
// returned as a response, not an error, so callers can read backend error
// bodies.
func (t *HTTPTransport) Get(ctx context.Context, endpoint string, params url.Values) (*adapter.TransportResponse, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := t.client.Do(req)
	if err != nil {
		// url.Error repeats the full URL; keep only the cause.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, fmt.Errorf("GET %s: %w", redactPath(u), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return &adapter.TransportResponse{StatusCode: resp.StatusCode, Body: body}, nil
}

// redactPath keeps bot tokens, which live in the path, out of error text.
func redactPath(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
