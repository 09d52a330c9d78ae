// Package network builds the HTTP client shared by listing requests and probes.
package network

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/key"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const maxRedirects = 10

// CredentialsFunc returns basic auth credentials for a host, if any are stored.
type CredentialsFunc func(host string) (user, password string, ok bool)

// Options configures NewClient.
type Options struct {
	Timeout        time.Duration
	UserAgent      string
	RateLimit      float64 // requests per second, 0 disables
	Burst          int
	TLSFingerprint bool
	Credentials    CredentialsFunc
}

// OptionsFromConfig reads client settings from the loaded configuration.
func OptionsFromConfig() Options {
	return Options{
		Timeout:        time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second,
		UserAgent:      viper.GetString(key.NetworkUserAgent),
		RateLimit:      viper.GetFloat64(key.NetworkRateLimit),
		Burst:          viper.GetInt(key.NetworkBurst),
		TLSFingerprint: viper.GetBool(key.TLSFingerprint),
	}
}

// NewClient returns a client safe to share between goroutines. Nothing about
// it changes after construction.
func NewClient(opts Options) *http.Client {
	var transport http.RoundTripper = newTransport()
	if opts.TLSFingerprint {
		transport = newFingerprintTransport()
	}

	if opts.Credentials != nil {
		transport = &basicAuth{next: transport, credentials: opts.Credentials}
	}

	if opts.RateLimit > 0 {
		transport = &rateLimited{next: transport, limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), max(opts.Burst, 1))}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = constant.UserAgent
	}
	transport = &withUserAgent{next: transport, userAgent: userAgent}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// newTransport clones the default transport with a connection pool sized for
// many concurrent HEAD probes against a single host.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

type withUserAgent struct {
	next      http.RoundTripper
	userAgent string
}

func (t *withUserAgent) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(req)
}

type rateLimited struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimited) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Join(ErrRateLimited, err)
	}
	return t.next.RoundTrip(req)
}

// ErrRateLimited is returned when a request gave up waiting for its turn.
var ErrRateLimited = errors.New("rate limit wait aborted")

type basicAuth struct {
	next        http.RoundTripper
	credentials CredentialsFunc
}

func (t *basicAuth) RoundTrip(req *http.Request) (*http.Response, error) {
	user, password, ok := t.credentials(req.URL.Host)
	if !ok || req.Header.Get("Authorization") != "" {
		return t.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.SetBasicAuth(user, password)
	return t.next.RoundTrip(req)
}
