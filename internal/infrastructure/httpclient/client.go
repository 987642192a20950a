package httpclient

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"payment_gateway/internal/logger"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// maxBodyBytes caps how much of a provider response is read.
const maxBodyBytes = 1 << 20

// ErrCircuitOpen is returned when the provider breaker rejects a call.
var ErrCircuitOpen = gobreaker.ErrOpenState

// Response is a fully read provider response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// BreakerConfig holds configuration for the circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the maximum number of requests allowed in the half-open state.
	MaxRequests uint32
	// Interval is the cyclic period of the closed state for clearing internal counts.
	Interval time.Duration
	// Timeout is how long the breaker stays open before moving to half-open.
	Timeout time.Duration
	// FailureRatio trips the breaker once MinRequests have been seen.
	FailureRatio float64
	MinRequests  uint32
}

func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// Client is the outbound HTTP client of one provider: a plain http.Client
// with an explicit timeout behind a circuit breaker. It never retries.
type Client struct {
	provider string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[*Response]
}

type serverStatusError struct {
	status int
}

func (e *serverStatusError) Error() string {
	return "provider server error " + strconv.Itoa(e.status)
}

func New(provider string, timeout time.Duration, cbCfg BreakerConfig) *Client {
	settings := gobreaker.Settings{
		Name:        provider,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cbCfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cbCfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.L().Warn("[payment][httpclient] circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			breakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	breakerState.WithLabelValues(provider).Set(0)

	return &Client{
		provider: provider,
		http:     &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker[*Response](settings),
	}
}

// HTTPClient exposes the underlying client so tests can swap its Transport.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// Do sends req and reads the whole body. Transport errors and 5xx responses
// count as breaker failures; a 5xx response is still returned to the caller so
// the provider message can be surfaced.
func (c *Client) Do(req *http.Request, operation string) (*Response, error) {
	start := time.Now()
	var out *Response

	_, err := c.breaker.Execute(func() (*Response, error) {
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s response: %w", c.provider, err)
		}
		out = &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
		if resp.StatusCode >= 500 {
			return out, &serverStatusError{status: resp.StatusCode}
		}
		return out, nil
	})
	requestDuration.WithLabelValues(c.provider, operation).Observe(time.Since(start).Seconds())

	var serverErr *serverStatusError
	switch {
	case err == nil:
		requestsTotal.WithLabelValues(c.provider, operation, outcome(out.StatusCode)).Inc()
		return out, nil
	case errors.As(err, &serverErr) && out != nil:
		requestsTotal.WithLabelValues(c.provider, operation, "server_error").Inc()
		return out, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		requestsTotal.WithLabelValues(c.provider, operation, "circuit_open").Inc()
		return nil, fmt.Errorf("%s %s: %w", c.provider, operation, ErrCircuitOpen)
	default:
		requestsTotal.WithLabelValues(c.provider, operation, "transport_error").Inc()
		return nil, fmt.Errorf("%s %s request failed: %w", c.provider, operation, err)
	}
}

func outcome(status int) string {
	if status >= 200 && status < 300 {
		return "success"
	}
	return "client_error"
}
