// Copyright 2025 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package discovery

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// ContentTypeDNSJSON is the media type of DNS-over-HTTPS JSON API responses.
const ContentTypeDNSJSON = "application/dns-json"

// fetchOptions holds the internal configuration for the fetch function.
type fetchOptions struct {
	retries            int
	retryWaitMin       time.Duration
	allowLocalhost     bool
	userAgent          string
	insecureSkipVerify bool
}

// FetchOption configures a DNS-over-HTTPS request.
type FetchOption func(*fetchOptions)

// FetchOpt contains options for DNS-over-HTTPS requests.
var FetchOpt fetchOptionBuilder

// fetchOptionBuilder is the internal builder for FetchOption functions.
type fetchOptionBuilder struct{}

// WithRetries sets the number of retries for HTTP requests.
func (fetchOptionBuilder) WithRetries(retries int) FetchOption {
	return func(opts *fetchOptions) {
		opts.retries = retries
	}
}

// WithRetryWait sets the minimum wait time between retries.
func (fetchOptionBuilder) WithRetryWait(wait time.Duration) FetchOption {
	return func(opts *fetchOptions) {
		opts.retryWaitMin = wait
	}
}

// WithLocalhost allows HTTP connections to localhost addresses.
func (fetchOptionBuilder) WithLocalhost(allow bool) FetchOption {
	return func(opts *fetchOptions) {
		opts.allowLocalhost = allow
	}
}

// WithUserAgent sets the User-Agent header for HTTP requests.
func (fetchOptionBuilder) WithUserAgent(userAgent string) FetchOption {
	return func(opts *fetchOptions) {
		opts.userAgent = userAgent
	}
}

// WithInsecureSkipVerify skips TLS certificate verification (for testing).
func (fetchOptionBuilder) WithInsecureSkipVerify(skip bool) FetchOption {
	return func(opts *fetchOptions) {
		opts.insecureSkipVerify = skip
	}
}

// fetch performs an HTTP GET request to the specified URL and returns
// the JSON response body. It enforces HTTPS unless connecting to localhost.
func fetch(ctx context.Context, rawURL string, opts ...FetchOption) ([]byte, error) {
	options := &fetchOptions{
		retries:        2,
		retryWaitMin:   2 * time.Second,
		userAgent:      "dkic/1.0",
		allowLocalhost: true,
	}
	for _, opt := range opts {
		opt(options)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	isLocalhost := strings.EqualFold(parsedURL.Hostname(), "localhost") ||
		parsedURL.Hostname() == "127.0.0.1" ||
		parsedURL.Hostname() == "::1"

	if !strings.EqualFold(parsedURL.Scheme, "https") && (!isLocalhost || !options.allowLocalhost) {
		return nil, errors.New("HTTPS scheme is required")
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = options.retries
	retryClient.RetryWaitMin = options.retryWaitMin
	retryClient.RetryWaitMax = max(5*time.Second, options.retryWaitMin)
	retryClient.Logger = nil
	if options.insecureSkipVerify {
		retryClient.HTTPClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", options.userAgent)
	req.Header.Set("Accept", ContentTypeDNSJSON)

	resp, err := retryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(body) == 0 {
		return nil, errors.New("response body is empty")
	}
	if !json.Valid(body) {
		return nil, errors.New("invalid DNS JSON response")
	}

	return body, nil
}
