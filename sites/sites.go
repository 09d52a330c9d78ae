// Package sites remembers crawled site addresses and suggests them for
// shell completion.
package sites

import (
	"slices"
	"strings"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/pf-cli/pf/filesystem"
	"github.com/pf-cli/pf/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type siteRecord struct {
	Rank int    `json:"rank"`
	Site string `json:"site"`
}

var cacher = gache.New[map[string]*siteRecord](
	&gache.Options{
		Path:       where.Sites(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Remember records a crawl of site, raising its rank by weight.
func Remember(site string, weight int) error {
	site = sanitize(site)
	if site == "" {
		return nil
	}

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*siteRecord)
	}

	if record, ok := cached[site]; ok {
		record.Rank += weight
	} else {
		cached[site] = &siteRecord{Rank: weight, Site: site}
	}

	return cacher.Set(cached)
}

// Suggest returns the best known site for a partial address.
func Suggest(partial string) mo.Option[string] {
	suggestions := SuggestMany(partial)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns known sites fuzzily matching partial. Higher ranks come
// first, ties go to the closer spelling.
func SuggestMany(partial string) []string {
	partial = sanitize(partial)

	cached, expired, err := cacher.Get()
	if err != nil || expired || cached == nil {
		return []string{}
	}

	records := lo.Filter(lo.Values(cached), func(r *siteRecord, _ int) bool {
		return fuzzy.MatchFold(partial, r.Site)
	})

	slices.SortFunc(records, func(a, b *siteRecord) int {
		if a.Rank != b.Rank {
			return b.Rank - a.Rank
		}
		if d := levenshtein.Distance(partial, a.Site) - levenshtein.Distance(partial, b.Site); d != 0 {
			return d
		}
		return strings.Compare(a.Site, b.Site)
	})

	return lo.Map(records, func(r *siteRecord, _ int) string {
		return r.Site
	})
}

func sanitize(site string) string {
	return strings.TrimRight(strings.TrimSpace(site), "/")
}
