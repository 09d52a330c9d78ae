// Package probe confirms candidate URLs with HEAD requests.
package probe

import (
	"context"
	"net/http"

	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/mime"
	"github.com/pf-cli/pf/util"
	"golang.org/x/sync/errgroup"
)

// Verifier holds only read-only state and may be shared by any number of goroutines.
type Verifier struct {
	client      *http.Client
	registry    *mime.Registry
	concurrency int
}

type Option func(*Verifier)

// WithConcurrency bounds the number of probes Filter runs at once.
// Values below 1 mean no bound.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		v.concurrency = n
	}
}

func New(client *http.Client, registry *mime.Registry, opts ...Option) *Verifier {
	v := &Verifier{client: client, registry: registry, concurrency: 16}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify reports whether url answers a HEAD request with a success status and
// a content type that is exactly one of the registered video types. Every
// failure, including a cancelled context, reads as false.
func (v *Verifier) Verify(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := v.client.Do(req)
	if err != nil {
		log.Debugf("probe %s: %s", url, err)
		return false
	}
	defer util.Ignore(resp.Body.Close)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Debugf("probe %s: status %d", url, resp.StatusCode)
		return false
	}

	contentType := resp.Header.Get("Content-Type")
	if !v.registry.Accepts(contentType) {
		log.Debugf("probe %s: content type %q", url, contentType)
		return false
	}

	return true
}

// Filter probes every candidate concurrently and returns the confirmed ones
// in the order they were given.
func (v *Verifier) Filter(ctx context.Context, candidates []string) []string {
	if len(candidates) == 0 {
		return nil
	}

	var (
		ok = make([]bool, len(candidates))
		g  errgroup.Group
	)

	if v.concurrency > 0 {
		g.SetLimit(v.concurrency)
	}

	for i, candidate := range candidates {
		g.Go(func() error {
			ok[i] = v.Verify(ctx, candidate)
			return nil
		})
	}

	_ = g.Wait()

	var confirmed []string
	for i, candidate := range candidates {
		if ok[i] {
			confirmed = append(confirmed, candidate)
		}
	}

	return confirmed
}
