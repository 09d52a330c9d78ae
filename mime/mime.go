// Package mime holds the set of video formats pf looks for.
//
// A Registry is selected once at startup from the mime.extensions setting and
// never changes afterwards, so it can be shared freely between goroutines.
package mime

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	ErrEmptyRegistry    = errors.New("at least one video extension must be selected")
	ErrUnknownExtension = errors.New("unknown video extension")
)

// Entry pairs a file extension with the content type a server reports for it.
type Entry struct {
	Extension string `json:"extension"`
	Type      string `json:"type"`
}

// table is in canonical order. The first selected entry is the canonical one.
var table = []Entry{
	{"mp4", "video/mp4"},
	{"avi", "video/x-msvideo"},
	{"flv", "video/x-flv"},
	{"mpeg", "video/mpeg"},
	{"mov", "video/quicktime"},
	{"webm", "video/webm"},
	{"wmv", "video/x-ms-wmv"},
}

// Known lists every extension that can be selected.
func Known() []string {
	return lo.Map(table, func(e Entry, _ int) string { return e.Extension })
}

type Registry struct {
	entries []Entry
	types   map[string]struct{}
}

// New builds a registry from the given extensions. Order of arguments does not
// matter, duplicates collapse and case is ignored.
func New(extensions ...string) (*Registry, error) {
	selected := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext == "" {
			continue
		}

		if !lo.ContainsBy(table, func(e Entry) bool { return e.Extension == ext }) {
			return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownExtension, ext, strings.Join(Known(), ", "))
		}

		selected[ext] = struct{}{}
	}

	entries := lo.Filter(table, func(e Entry, _ int) bool {
		_, ok := selected[e.Extension]
		return ok
	})

	if len(entries) == 0 {
		return nil, ErrEmptyRegistry
	}

	types := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		types[e.Type] = struct{}{}
	}

	return &Registry{entries: entries, types: types}, nil
}

// MustNew is New for static selections known to be valid.
func MustNew(extensions ...string) *Registry {
	return lo.Must(New(extensions...))
}

func (r *Registry) Extensions() []string {
	return lo.Map(r.entries, func(e Entry, _ int) string { return e.Extension })
}

func (r *Registry) Types() []string {
	return lo.Map(r.entries, func(e Entry, _ int) string { return e.Type })
}

// Canonical is the extension rewritten into upload URLs that point at other files.
func (r *Registry) Canonical() string {
	return r.entries[0].Extension
}

// Accepts reports whether contentType is exactly one of the registered types.
// Parameters such as "; charset=" make a value unacceptable.
func (r *Registry) Accepts(contentType string) bool {
	_, ok := r.types[contentType]
	return ok
}
