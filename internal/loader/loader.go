// Package loader reads raw schema documents from disk, an fs.FS, or HTTP.
package loader

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"time"
)

// Options configures a Loader.
type Options struct {
	FileSystem        fs.FS
	HTTPClient        *http.Client
	AllowHTTPFallback bool
	RequestTimeout    time.Duration
}

// Loader reads documents using the strategies enabled in Options.
type Loader struct {
	fs      fs.FS
	http    *http.Client
	timeout time.Duration
}

// ErrHTTPDisabled is returned when a URL is requested without an HTTP client
// or fallback.
var ErrHTTPDisabled = errors.New("loader: http support disabled")

// New constructs a Loader from pre-resolved options.
func New(options Options) *Loader {
	timeout := options.RequestTimeout

	var httpClient *http.Client
	switch {
	case options.HTTPClient != nil:
		clone := *options.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case options.AllowHTTPFallback:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:      options.FileSystem,
		http:    httpClient,
		timeout: timeout,
	}
}

// File reads a document from the operating system filesystem.
func (l *Loader) File(ctx context.Context, path string) ([]byte, error) {
	return loadFile(ctx, path)
}

// FS reads a document from the configured fs.FS.
func (l *Loader) FS(ctx context.Context, name string) ([]byte, error) {
	return loadFromFS(ctx, l.fs, name)
}

// HTTP fetches a document over HTTP when a client is configured.
func (l *Loader) HTTP(ctx context.Context, url string) ([]byte, error) {
	if l.http == nil {
		return nil, ErrHTTPDisabled
	}
	return loadHTTP(ctx, l.http, url, l.timeout)
}
