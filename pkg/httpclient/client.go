package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Client is the subset of *http.Client used by the integration clients.
// Tests substitute a client pointed at an httptest server.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// New returns an *http.Client with the given timeout whose transport
// propagates trace context to the called service.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
