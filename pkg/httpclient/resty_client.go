package httpclient

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures a resty client built by New.
type Options struct {
	// BaseURL is prepended to relative request paths. Empty means requests use absolute URLs.
	BaseURL string
	// Timeout bounds a single request round-trip. Zero keeps resty's default (no timeout).
	Timeout time.Duration
	// UserAgent overrides resty's default User-Agent header when set.
	UserAgent string
	// OnResponse, when set, observes every completed response (logging, metrics).
	OnResponse func(resp *resty.Response)
}

// New creates a resty.Client configured from opts.
func New(opts Options) *resty.Client {
	c := newRestyBaseClient(opts.Timeout)
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		c.SetBaseURL(base)
	}
	if ua := strings.TrimSpace(opts.UserAgent); ua != "" {
		c.SetHeader("User-Agent", ua)
	}
	Observe(c, opts.OnResponse)
	return c
}

// Observe registers fn to see every response c receives. It never fails the
// request. A nil fn is ignored.
func Observe(c *resty.Client, fn func(resp *resty.Response)) {
	if c == nil || fn == nil {
		return
	}
	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		fn(resp)
		return nil
	})
}

// newRestyBaseClient creates a new resty.Client with the specified timeout.
func newRestyBaseClient(timeout time.Duration) *resty.Client {
	c := resty.New()
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c
}
