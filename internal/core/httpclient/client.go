package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"storefront/internal/core/logger"
	"storefront/internal/core/proxy"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Options configures the outbound client.
type Options struct {
	// Timeout bounds the whole request including reading the body.
	Timeout time.Duration
	// RequestsPerSecond throttles outbound calls. Zero or less disables throttling.
	RequestsPerSecond float64
	// Burst is the limiter bucket size. Values below 1 are treated as 1.
	Burst int
	// Proxy routes requests through an upstream HTTP proxy when enabled.
	Proxy proxy.Settings
}

// LoggingRoundTripper captures request details for debugging.
type LoggingRoundTripper struct {
	// Proxied is the underlying RoundTripper to execute the request.
	Proxied http.RoundTripper
}

// RoundTrip executes the request and logs details.
func (lrt *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	log := logger.Named("httpclient")

	log.Debug("HTTP Request Started",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
	)

	resp, err := lrt.Proxied.RoundTrip(req)

	duration := time.Since(start)

	if err != nil {
		log.Error("HTTP Request Failed",
			zap.String("method", req.Method),
			zap.String("url", req.URL.String()),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	log.Debug("HTTP Request Completed",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)

	return resp, nil
}

// RateLimitedRoundTripper blocks each request until the limiter grants a token
// or the request context is done.
type RateLimitedRoundTripper struct {
	Limiter *rate.Limiter
	Proxied http.RoundTripper
}

// RoundTrip waits for the limiter and forwards the request.
func (r *RateLimitedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.Limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	return r.Proxied.RoundTrip(req)
}

// NewClient returns an http.Client with logging, throttling and optional proxy.
func NewClient(opts Options) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	proxyURL, err := opts.Proxy.URL()
	if err != nil {
		return nil, err
	}
	if proxyURL != nil {
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	var rt http.RoundTripper = transport
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		rt = &RateLimitedRoundTripper{
			Limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst),
			Proxied: rt,
		}
	}

	return &http.Client{
		Transport: &LoggingRoundTripper{Proxied: rt},
		Timeout:   opts.Timeout,
	}, nil
}
