package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/util"
	"github.com/samber/mo"
)

// Page is one decoded listing response.
type Page struct {
	URL   string
	Items []Item
}

// Paginator walks the listing pages of one crawl by following Link headers.
// It is single use and not safe for concurrent calls to Next.
type Paginator struct {
	client  *http.Client
	next    mo.Option[string]
	fetched int
	retries uint
}

// PaginatorOption customizes a Paginator.
type PaginatorOption func(*Paginator)

// WithRetries sets how many times a transient failure is retried before it
// becomes fatal. Zero disables retrying.
func WithRetries(n uint) PaginatorOption {
	return func(p *Paginator) {
		p.retries = n
	}
}

// NewPaginator validates the config and positions the paginator before its first page.
func NewPaginator(client *http.Client, cfg Config, opts ...PaginatorOption) (*Paginator, error) {
	start, err := BuildURL(cfg)
	if err != nil {
		return nil, err
	}

	p := &Paginator{client: client, next: mo.Some(start), retries: 3}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Fetched is the number of pages received so far.
func (p *Paginator) Fetched() int {
	return p.fetched
}

// Exhausted reports whether the last page has been returned.
func (p *Paginator) Exhausted() bool {
	return p.next.IsAbsent()
}

type listing struct {
	body []byte
	link string
}

// Next fetches the next page. It returns io.EOF once the previous page carried
// no rel="next" link. Any other error is fatal and leaves the paginator exhausted.
func (p *Paginator) Next(ctx context.Context) (Page, error) {
	url, ok := p.next.Get()
	if !ok {
		return Page{}, io.EOF
	}

	p.next = mo.None[string]()

	res, err := p.fetch(ctx, url)
	if err != nil {
		return Page{}, err
	}

	items, err := ParseItems(res.body)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", url, err)
	}

	p.fetched++
	p.next = NextLink(res.link)
	log.Debugf("fetched %s: %d items, next: %v", url, len(items), p.next.OrEmpty())

	return Page{URL: url, Items: items}, nil
}

func (p *Paginator) fetch(ctx context.Context, url string) (listing, error) {
	operation := func() (listing, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return listing{}, backoff.Permanent(fmt.Errorf("%w: %w", ErrConfiguration, err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.client.Do(req)
		if err != nil {
			err = fmt.Errorf("%w: failed to send request: %w", ErrTransport, err)
			if ctx.Err() != nil {
				return listing{}, backoff.Permanent(err)
			}
			return listing{}, err
		}
		defer util.Ignore(resp.Body.Close)

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			err = fmt.Errorf("%w: failed to fetch URL, status code: %s", ErrProtocol, resp.Status)
			if retryableStatus(resp.StatusCode) {
				return listing{}, err
			}
			return listing{}, backoff.Permanent(err)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return listing{}, fmt.Errorf("%w: failed to read response body: %w", ErrTransport, err)
		}

		return listing{body: body, link: strings.Join(resp.Header.Values("Link"), ",")}, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	res, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(p.retries+1),
		backoff.WithNotify(func(err error, wait time.Duration) {
			log.Warnf("retrying %s in %s: %s", url, wait, err)
		}),
	)
	if err != nil {
		if !errors.Is(err, ErrTransport) && !errors.Is(err, ErrProtocol) && !errors.Is(err, ErrConfiguration) {
			// context expiry observed by backoff between attempts
			err = fmt.Errorf("%w: %w", ErrTransport, err)
		}
		return listing{}, err
	}

	return res, nil
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
