package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// DefaultUserAgent is sent unless Config.UserAgent overrides it.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	DefaultTimeout   = 30 * time.Second
	// DefaultMaxBodySize is the largest page Fetch accepts.
	DefaultMaxBodySize = 10 << 20
)

// Config configures a Fetcher.
type Config struct {
	Timeout     time.Duration
	UserAgent   string
	MaxBodySize int64
}

// FetchResult fetch result
type FetchResult struct {
	Body       []byte
	URL        string // final URL after redirects
	StatusCode int
	LoadTime   time.Duration
}

// Fetcher issues a single GET per call. It never retries.
type Fetcher struct {
	client  *resty.Client
	maxBody int64
}

// New creates a Fetcher. Zero values in cfg fall back to the defaults.
func New(cfg Config) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodySize <= 0 {
		cfg.MaxBodySize = DefaultMaxBodySize
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Fetcher{client: client, maxBody: cfg.MaxBodySize}
}

// Fetch performs the GET request.
// A non-200 response yields a *StatusError, a transport failure a *NetworkError
// and a body over the size limit a *BodyTooLargeError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*FetchResult, error) {
	startTime := time.Now()

	resp, err := f.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return nil, newNetworkError(url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.StatusCode() != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode()}
	}

	data, err := io.ReadAll(io.LimitReader(body, f.maxBody+1))
	if err != nil {
		return nil, newNetworkError(url, err)
	}
	if int64(len(data)) > f.maxBody {
		return nil, &BodyTooLargeError{URL: url, Limit: f.maxBody}
	}

	finalURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil {
		finalURL = raw.Request.URL.String()
	}

	return &FetchResult{
		Body:       data,
		URL:        finalURL,
		StatusCode: resp.StatusCode(),
		LoadTime:   time.Since(startTime),
	}, nil
}

// StatusError is returned when the server answers with anything but 200.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch data: HTTP status code %d for %s", e.StatusCode, e.URL)
}

// BodyTooLargeError is returned when the page exceeds the size limit.
// Nothing is extracted from a partial page.
type BodyTooLargeError struct {
	URL   string
	Limit int64
}

func (e *BodyTooLargeError) Error() string {
	return fmt.Sprintf("failed to fetch data: body of %s exceeds %d bytes", e.URL, e.Limit)
}

// NetworkErrorKind classifies transport failures.
type NetworkErrorKind string

const (
	KindTimeout    NetworkErrorKind = "timeout"
	KindDNS        NetworkErrorKind = "dns"
	KindConnection NetworkErrorKind = "connection"
	KindOther      NetworkErrorKind = "other"
)

// NetworkError is returned when the remote resource could not be reached.
type NetworkError struct {
	Kind NetworkErrorKind
	URL  string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to reach %s (%s): %v", e.URL, e.Kind, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func newNetworkError(url string, err error) *NetworkError {
	return &NetworkError{Kind: classify(err), URL: url, Err: err}
}

func classify(err error) NetworkErrorKind {
	var (
		dnsErr *net.DNSError
		opErr  *net.OpError
		netErr net.Error
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &dnsErr):
		if dnsErr.IsTimeout {
			return KindTimeout
		}
		return KindDNS
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.As(err, &opErr):
		return KindConnection
	default:
		return KindOther
	}
}
