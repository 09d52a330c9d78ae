// Package finder drives a crawl: it walks listing pages, resolves each item
// through the extraction strategies and collects the confirmed video URLs.
package finder

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/extract"
	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/mime"
	"github.com/pf-cli/pf/probe"
	"golang.org/x/sync/errgroup"
)

// Resolution is what one item contributed. Strategy is empty when no
// strategy produced a confirmed URL.
type Resolution struct {
	Strategy string
	URLs     []string
}

// Observer receives crawl events. Nil callbacks are skipped. Callbacks may be
// invoked from several goroutines at once.
type Observer struct {
	OnPage      func(page api.Page)
	OnItem      func(item api.Item, res Resolution)
	OnConfirmed func(url string)
}

type Finder struct {
	client     *http.Client
	verifier   *probe.Verifier
	strategies []extract.Strategy
	results    *ResultSet
	observer   Observer
	workers    int
	retries    uint
}

type Option func(*Finder)

// WithResultSet shares an accumulator, e.g. between a posts and a media crawl.
func WithResultSet(r *ResultSet) Option {
	return func(f *Finder) {
		f.results = r
	}
}

func WithObserver(o Observer) Option {
	return func(f *Finder) {
		f.observer = o
	}
}

// WithWorkers sets how many items of a page are resolved at once.
func WithWorkers(n int) Option {
	return func(f *Finder) {
		f.workers = max(n, 1)
	}
}

// WithRetries is passed on to the paginator.
func WithRetries(n uint) Option {
	return func(f *Finder) {
		f.retries = n
	}
}

// WithVerifier replaces the default HEAD verifier.
func WithVerifier(v *probe.Verifier) Option {
	return func(f *Finder) {
		f.verifier = v
	}
}

func New(client *http.Client, registry *mime.Registry, opts ...Option) *Finder {
	f := &Finder{
		client:     client,
		strategies: extract.New(registry).Strategies(),
		results:    NewResultSet(),
		workers:    8,
		retries:    3,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.verifier == nil {
		f.verifier = probe.New(client, registry)
	}

	return f
}

// Results is the accumulator confirmed URLs are merged into.
func (f *Finder) Results() *ResultSet {
	return f.results
}

// Resolve tries the strategies in priority order and stops at the first one
// whose candidates yield at least one confirmed URL.
func (f *Finder) Resolve(ctx context.Context, item api.Item) Resolution {
	for _, strategy := range f.strategies {
		candidates := strategy.Extract(item)
		if len(candidates) == 0 {
			continue
		}

		if confirmed := f.verifier.Filter(ctx, candidates); len(confirmed) > 0 {
			return Resolution{Strategy: strategy.Name, URLs: confirmed}
		}
	}

	return Resolution{}
}

// Find crawls every config in turn and yields each confirmed URL the first
// time it is seen. Pages are fetched only as the sequence is consumed;
// breaking out of the loop stops the crawl. A fatal error is yielded once
// and ends the sequence.
func (f *Finder) Find(ctx context.Context, cfgs ...api.Config) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		for _, cfg := range cfgs {
			paginator, err := api.NewPaginator(f.client, cfg, api.WithRetries(f.retries))
			if err != nil {
				yield("", err)
				return
			}

			for !paginator.Exhausted() {
				page, err := paginator.Next(ctx)
				if err != nil {
					log.WithFields(log.Fields{"site": cfg.URL, "target": cfg.Target.Kind}).Error(err)
					yield("", err)
					return
				}

				if f.observer.OnPage != nil {
					f.observer.OnPage(page)
				}

				fresh := f.resolvePage(ctx, page)
				if err := ctx.Err(); err != nil {
					yield("", fmt.Errorf("%w: %w", api.ErrTransport, err))
					return
				}

				for _, url := range fresh {
					if !yield(url, nil) {
						return
					}
				}
			}

			log.WithFields(log.Fields{
				"site":   cfg.URL,
				"target": cfg.Target.Kind,
				"pages":  paginator.Fetched(),
				"found":  f.results.Len(),
			}).Info("listing exhausted")
		}
	}
}

// Collect runs Find to completion and returns the whole result set.
func (f *Finder) Collect(ctx context.Context, cfgs ...api.Config) ([]string, error) {
	for _, err := range f.Find(ctx, cfgs...) {
		if err != nil {
			return nil, err
		}
	}

	return f.results.Slice(), nil
}

// resolvePage resolves the items of a page concurrently and merges them into
// the result set, returning the URLs that were not known before in item order.
func (f *Finder) resolvePage(ctx context.Context, page api.Page) []string {
	resolutions := make([]Resolution, len(page.Items))

	var g errgroup.Group
	g.SetLimit(f.workers)

	for i, item := range page.Items {
		g.Go(func() error {
			res := f.Resolve(ctx, item)
			resolutions[i] = res

			if f.observer.OnItem != nil {
				f.observer.OnItem(item, res)
			}

			if res.Strategy != "" {
				log.WithFields(log.Fields{
					"id":       item.ID(),
					"strategy": res.Strategy,
					"urls":     len(res.URLs),
				}).Debug("item resolved")
			}
			return nil
		})
	}

	_ = g.Wait()

	var fresh []string
	for _, res := range resolutions {
		for _, url := range res.URLs {
			if f.results.Add(url) {
				fresh = append(fresh, url)

				if f.observer.OnConfirmed != nil {
					f.observer.OnConfirmed(url)
				}
			}
		}
	}

	return fresh
}
