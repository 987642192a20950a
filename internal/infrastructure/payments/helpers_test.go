package payments

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"payment_gateway/internal/infrastructure/httpclient"
)

// MockRoundTripper allows us to mock the HTTP response
type MockRoundTripper func(req *http.Request) *http.Response

func (f MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

type MockRoundTripperWithError func(req *http.Request) (*http.Response, error)

func (f MockRoundTripperWithError) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(name string, rt http.RoundTripper) *httpclient.Client {
	c := httpclient.New(name, time.Second, httpclient.DefaultBreakerConfig())
	c.HTTPClient().Transport = rt
	return c
}
