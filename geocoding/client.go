// Copyright 2025 The GroceryDist Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"io"
	"net/http"
	"os"
	"time"

	"github.com/jcodagnone/grocerydist/utils/httputils"
)

const defaultUserAgent = "grocerydist/unknown"

// ClientOptions configures the HTTP client shared by the providers.
type ClientOptions struct {
	// UserAgent is the User-Agent header to use in HTTP requests
	UserAgent string

	// Enables light tracing of HTTP requests and responses
	EnableHTTPTrace bool

	// Enables full HTTP body tracing
	EnableHTTPBodyTrace bool

	// Timeout of a single request. Defaults to 10 seconds.
	Timeout time.Duration

	// Trace output. Defaults to stderr.
	TraceWriter io.Writer
}

// NewHTTPClient builds the client used to talk to geocoding services.
func NewHTTPClient(options *ClientOptions) *http.Client {
	if options == nil {
		options = &ClientOptions{}
	}

	var httpLogWriter io.Writer
	if options.EnableHTTPTrace || options.EnableHTTPBodyTrace {
		httpLogWriter = options.TraceWriter
		if httpLogWriter == nil {
			httpLogWriter = os.Stderr
		}
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	loggingTransport := &httputils.LoggingRoundTripper{
		Writer:       httpLogWriter,
		DumpBody:     options.EnableHTTPBodyTrace,
		Transport:    transport,
		RedactParams: []string{"key"},
	}

	userAgent := defaultUserAgent
	if options.UserAgent != "" {
		userAgent = options.UserAgent
	}

	headerTransport := &httputils.AppendRequestHeadersRoundTripper{
		Transport: loggingTransport,
		Headers: map[string]string{
			"User-Agent": userAgent,
			"Accept":     "application/json",
		},
	}

	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &http.Client{
		Transport: headerTransport,
		Timeout:   timeout,
	}
}
