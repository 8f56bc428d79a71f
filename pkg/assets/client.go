// Package assets is a client for the Assets Server REST API. A Client logs in
// when it is built and attaches the resulting bearer token to every call.
package assets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Adda-Baaj/assets-client/pkg/httpclient"
	"github.com/go-resty/resty/v2"
)

const (
	// DefaultTimeout bounds each request when WithTimeout is not given.
	DefaultTimeout = 30 * time.Second

	servicesSuffix = "/services"
	userAgent      = "assets-client-go"
)

// Credentials identify the remote service and the account used to log in.
type Credentials struct {
	Endpoint string
	Username string
	Password string
}

// Client is an authenticated Assets Server session.
//
// Calls may run concurrently once New has returned. Logout mutates the session,
// so callers must not race it with other calls on the same Client.
type Client struct {
	http    *resty.Client
	creds   Credentials
	baseURL string
	log     Logger

	mu    sync.RWMutex
	token string
}

type options struct {
	timeout    time.Duration
	timeoutSet bool
	log        Logger
	rc         *resty.Client
}

// Option configures a Client during New.
type Option func(*options) error

// WithTimeout sets the per-request timeout of the underlying transport.
func WithTimeout(d time.Duration) Option {
	return func(o *options) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be > 0")
		}
		o.timeout = d
		o.timeoutSet = true
		return nil
	}
}

// WithLogger routes client logs to log.
func WithLogger(log Logger) Option {
	return func(o *options) error {
		o.log = log
		return nil
	}
}

// WithRestyClient makes the Client use rc as its transport. rc is modified in
// place: its base URL becomes the services URL derived from the credentials and
// a response logging hook is added. Its timeout is kept unless WithTimeout is
// also given.
func WithRestyClient(rc *resty.Client) Option {
	return func(o *options) error {
		if rc == nil {
			return fmt.Errorf("resty client must not be nil")
		}
		o.rc = rc
		return nil
	}
}

// New builds a Client and logs in. Either a fully authenticated Client or an
// error is returned.
func New(ctx context.Context, creds Credentials, opts ...Option) (*Client, error) {
	if strings.TrimSpace(creds.Endpoint) == "" {
		return nil, missing("new client", "endpoint")
	}

	o := options{timeout: DefaultTimeout}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("apply option: %w", err)
		}
	}

	c := &Client{
		creds:   creds,
		baseURL: ServicesURL(creds.Endpoint),
		log:     ensureLogger(o.log),
	}

	if o.rc != nil {
		c.http = o.rc.SetBaseURL(c.baseURL)
		if o.timeoutSet {
			c.http.SetTimeout(o.timeout)
		}
		httpclient.Observe(c.http, c.logResponse)
	} else {
		c.http = httpclient.New(httpclient.Options{
			BaseURL:    c.baseURL,
			Timeout:    o.timeout,
			UserAgent:  userAgent,
			OnResponse: c.logResponse,
		})
	}

	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ServicesURL returns the REST root for endpoint, appending "/services" unless
// endpoint already ends with it.
func ServicesURL(endpoint string) string {
	base := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if strings.HasSuffix(base, servicesSuffix) {
		return base
	}
	return base + servicesSuffix
}

// BaseURL returns the services URL requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Token returns the current bearer token, or "" when there is no session.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Authenticated reports whether the client currently holds a session token.
func (c *Client) Authenticated() bool { return c.Token() != "" }

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}
