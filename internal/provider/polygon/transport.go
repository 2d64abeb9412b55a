package polygon

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const requestTimeout = 2 * time.Minute

// baseTransportConfig returns the shared HTTP transport configuration used by Polygon clients.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		ResponseHeaderTimeout: requestTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		DisableKeepAlives:     true,
	}
}

// newRestyClient creates a resty client configured for Polygon requests.
func newRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetTransport(baseTransportConfig()).
		SetTimeout(requestTimeout).
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json")
}
