package adapter

import (
	"context"
	"net/url"
)

// TransportResponse is the raw outcome of a GET request.
type TransportResponse struct {
	StatusCode int
	Body       []byte
}

// Transport performs a single bounded GET request. Implementations must
// apply a finite timeout.
type Transport interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*TransportResponse, error)
}
