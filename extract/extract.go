// Package extract derives candidate video URLs from WordPress listing items.
//
// Four strategies exist, from the most to the least reliable:
//
//	source    the item's own source_url (media listings)
//	featured  the embedded featured media source_url (posts listings)
//	body      upload URLs mentioned in the rendered content or excerpt
//	slug      URLs synthesized from the post slug and publish month
//
// A strategy never fails. An item it cannot use yields an empty set.
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/mime"
	"github.com/pf-cli/pf/util"
	"github.com/samber/lo"
)

var (
	uploadRegex = regexp.MustCompile(`^https?://[^/]+(?:/blog)?/wp-content/uploads/\d{4}/\d{2}/[^/]+\.\w+$`)
	extRegex    = regexp.MustCompile(`\.\w+$`)
	linkRegex   = regexp.MustCompile(`^(?P<origin>https?://[^/]+)(?:/[^/]+)*/(?P<slug>[^/]+)/?$`)
	dateRegex   = regexp.MustCompile(`^(?P<year>\d{4})-(?P<month>\d{2})-\d{2}T\d{2}:\d{2}:\d{2}`)
)

// Strategy is one named extraction heuristic.
type Strategy struct {
	Name    string
	Extract func(api.Item) []string
}

// Extractor binds the strategies to a registry of video formats.
type Extractor struct {
	registry  *mime.Registry
	canonical string
	bodyRegex *regexp.Regexp
}

func New(registry *mime.Registry) *Extractor {
	return &Extractor{
		registry:  registry,
		canonical: "." + registry.Canonical(),
		bodyRegex: bodyPattern(registry.Extensions()),
	}
}

// bodyPattern matches upload URLs of the given extensions inside free text.
// Text is lower-cased before scanning, so the pattern only needs lower case.
func bodyPattern(extensions []string) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(
		`https?://[^/\s"'<>]+(?:/blog)?/wp-content/uploads/\d{4}/\d{2}/[^/\s"'<>]+\.(?:%s)\b`,
		strings.Join(lo.Map(extensions, func(ext string, _ int) string { return regexp.QuoteMeta(ext) }), "|"),
	))
}

// Strategies returns the heuristics in the order they should be tried.
func (e *Extractor) Strategies() []Strategy {
	return []Strategy{
		{Name: "source", Extract: e.DirectSource},
		{Name: "featured", Extract: e.FeaturedMedia},
		{Name: "body", Extract: e.Body},
		{Name: "slug", Extract: e.SlugDate},
	}
}

// DirectSource rewrites the item's source_url to the canonical video extension.
func (e *Extractor) DirectSource(item api.Item) []string {
	var found util.Set[string]
	if src, ok := item.String("source_url").Get(); ok {
		e.rewrite(&found, src)
	}
	return found.Slice()
}

// FeaturedMedia does the same for every embedded featured media entry.
func (e *Extractor) FeaturedMedia(item api.Item) []string {
	var found util.Set[string]
	for _, media := range item.Items("_embedded", "wp:featuredmedia") {
		if src, ok := media.String("source_url").Get(); ok {
			e.rewrite(&found, src)
		}
	}
	return found.Slice()
}

func (e *Extractor) rewrite(found *util.Set[string], src string) {
	if uploadRegex.MatchString(src) {
		found.Add(extRegex.ReplaceAllLiteralString(src, e.canonical))
	}
}

// Body scans rendered content and excerpt. JSON-escaped slashes are
// unescaped and the text lower-cased before matching.
func (e *Extractor) Body(item api.Item) []string {
	var found util.Set[string]
	for _, field := range []string{"content", "excerpt"} {
		text, ok := item.String(field, "rendered").Get()
		if !ok {
			continue
		}

		text = strings.ToLower(strings.ReplaceAll(text, `\`, ""))
		for _, match := range e.bodyRegex.FindAllString(text, -1) {
			found.Add(match)
		}
	}
	return found.Slice()
}

// SlugDate guesses upload URLs from the post permalink slug and publish month,
// both with and without a /blog prefix, for every registered extension.
func (e *Extractor) SlugDate(item api.Item) []string {
	link, okLink := item.String("link").Get()
	date, okDate := item.String("date").Get()
	if !okLink || !okDate {
		return nil
	}

	l := util.ReGroups(linkRegex, link)
	d := util.ReGroups(dateRegex, date)
	if len(l) == 0 || len(d) == 0 {
		return nil
	}

	var found util.Set[string]
	for _, ext := range e.registry.Extensions() {
		for _, prefix := range []string{"", "/blog"} {
			found.Add(fmt.Sprintf("%s%s/wp-content/uploads/%s/%s/%s.%s",
				l["origin"], prefix, d["year"], d["month"], l["slug"], ext))
		}
	}
	return found.Slice()
}
