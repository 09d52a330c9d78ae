// Package history records finished crawls so later runs can pick up where
// the previous one stopped.
package history

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metafates/gache"
	"github.com/pf-cli/pf/filesystem"
	"github.com/pf-cli/pf/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// maxRuns caps the file; older runs are dropped first.
const maxRuns = 500

// Run is one completed crawl of a site.
type Run struct {
	ID         string    `json:"id"`
	Site       string    `json:"site"`
	Mode       string    `json:"mode"`
	Count      int       `json:"count"`
	FinishedAt time.Time `json:"finished_at"`
}

var cacher = gache.New[[]*Run](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Normalize makes "https://Example.com/" and "https://example.com" the same site.
func Normalize(site string) string {
	site = strings.TrimSpace(site)
	site = strings.TrimRight(site, "/")

	scheme, rest, ok := strings.Cut(site, "://")
	if !ok {
		return site
	}

	host, path, _ := strings.Cut(rest, "/")
	if path == "" {
		return strings.ToLower(scheme) + "://" + strings.ToLower(host)
	}
	return strings.ToLower(scheme) + "://" + strings.ToLower(host) + "/" + path
}

// List returns every recorded run, newest first.
func List() ([]*Run, error) {
	runs, err := load()
	if err != nil {
		return nil, err
	}

	runs = slices.Clone(runs)
	slices.SortStableFunc(runs, func(a, b *Run) int {
		return b.FinishedAt.Compare(a.FinishedAt)
	})
	return runs, nil
}

// Save appends a run. ID defaults to a fresh UUID and FinishedAt to now.
func Save(run Run) error {
	runs, err := load()
	if err != nil {
		return err
	}

	run.Site = Normalize(run.Site)
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	runs = append(runs, &run)
	if len(runs) > maxRuns {
		runs = runs[len(runs)-maxRuns:]
	}

	return cacher.Set(runs)
}

// Last returns the most recent run of site, if any.
func Last(site string) mo.Option[*Run] {
	runs, err := List()
	if err != nil {
		return mo.None[*Run]()
	}

	site = Normalize(site)
	run, ok := lo.Find(runs, func(r *Run) bool {
		return r.Site == site
	})
	if !ok {
		return mo.None[*Run]()
	}
	return mo.Some(run)
}

// Sites returns distinct crawled sites, most recent first.
func Sites() ([]string, error) {
	runs, err := List()
	if err != nil {
		return nil, err
	}

	return lo.Uniq(lo.Map(runs, func(r *Run, _ int) string {
		return r.Site
	})), nil
}

// Clear forgets every run.
func Clear() error {
	return cacher.Set([]*Run{})
}

func load() ([]*Run, error) {
	runs, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || runs == nil {
		return []*Run{}, nil
	}
	return runs, nil
}
