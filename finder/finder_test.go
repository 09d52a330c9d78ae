package finder

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/mime"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeSite is a minimal WordPress: paged listings plus a set of uploaded files.
type fakeSite struct {
	server *httptest.Server

	mu       sync.Mutex
	listings map[string][]string // resource -> page bodies, {{host}} is replaced by the server URL
	files    map[string]string   // path -> content type
	heads    map[string]int
	gets     int
}

func newFakeSite() *fakeSite {
	s := &fakeSite{
		listings: make(map[string][]string),
		files:    make(map[string]string),
		heads:    make(map[string]int),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *fakeSite) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.Method == http.MethodHead {
		s.heads[r.URL.Path]++
		if ct, ok := s.files[r.URL.Path]; ok {
			w.Header().Set("Content-Type", ct)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		return
	}

	resource := strings.TrimPrefix(r.URL.Path, "/wp-json/wp/v2/")
	pages, ok := s.listings[resource]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	s.gets++
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		page, _ = strconv.Atoi(p)
	}

	if page < len(pages) {
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=%d>; rel="next"`, s.server.URL, r.URL.Path, page+1))
	}

	_, _ = w.Write([]byte(strings.ReplaceAll(pages[page-1], "{{host}}", s.server.URL)))
}

func (s *fakeSite) headCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heads[path]
}

func (s *fakeSite) getCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

func (s *fakeSite) url(path string) string {
	return s.server.URL + path
}

func newFinder(s *fakeSite, opts ...Option) *Finder {
	return New(s.server.Client(), mime.MustNew("mp4", "mov"), append([]Option{WithRetries(0)}, opts...)...)
}

func TestResolve(t *testing.T) {
	Convey("Given an item that every strategy could match", t, func() {
		site := newFakeSite()
		defer site.server.Close()

		items, err := api.ParseItems([]byte(strings.ReplaceAll(`[{
			"source_url": "{{host}}/wp-content/uploads/2021/01/poster.jpg",
			"_embedded": {"wp:featuredmedia": [{"source_url": "{{host}}/wp-content/uploads/2021/01/featured.jpg"}]},
			"content": {"rendered": "{{host}}/wp-content/uploads/2021/01/inline.mp4"},
			"link": "{{host}}/my-post",
			"date": "2021-01-05T10:00:00"
		}]`, "{{host}}", site.server.URL)))
		So(err, ShouldBeNil)
		item := items[0]

		Convey("When the direct source is missing but the featured media exists", func() {
			site.files["/wp-content/uploads/2021/01/featured.mp4"] = "video/mp4"
			site.files["/wp-content/uploads/2021/01/inline.mp4"] = "video/mp4"

			res := newFinder(site).Resolve(context.Background(), item)

			Convey("The featured media strategy wins", func() {
				So(res.Strategy, ShouldEqual, "featured")
				So(res.URLs, ShouldResemble, []string{site.url("/wp-content/uploads/2021/01/featured.mp4")})
			})

			Convey("Lower priority strategies are never probed", func() {
				So(site.headCount("/wp-content/uploads/2021/01/poster.mp4"), ShouldEqual, 1)
				So(site.headCount("/wp-content/uploads/2021/01/inline.mp4"), ShouldEqual, 0)
				So(site.headCount("/wp-content/uploads/2021/01/my-post.mp4"), ShouldEqual, 0)
			})
		})

		Convey("When only the synthesized upload exists", func() {
			site.files["/blog/wp-content/uploads/2021/01/my-post.mov"] = "video/quicktime"

			res := newFinder(site).Resolve(context.Background(), item)
			So(res.Strategy, ShouldEqual, "slug")
			So(res.URLs, ShouldResemble, []string{site.url("/blog/wp-content/uploads/2021/01/my-post.mov")})
		})

		Convey("When a file exists with the wrong content type", func() {
			site.files["/wp-content/uploads/2021/01/poster.mp4"] = "image/jpeg"

			res := newFinder(site).Resolve(context.Background(), item)
			So(res.Strategy, ShouldBeEmpty)
			So(res.URLs, ShouldBeEmpty)
		})
	})
}

func TestFind(t *testing.T) {
	Convey("Given a site with two pages of posts and a media library", t, func() {
		site := newFakeSite()
		defer site.server.Close()

		site.listings["posts"] = []string{
			`[{"id": 1, "_embedded": {"wp:featuredmedia": [{"source_url": "{{host}}/wp-content/uploads/2021/01/a.jpg"}]}},
			  {"id": 2, "content": {"rendered": "nothing here"}}]`,
			`[{"id": 3, "link": "{{host}}/b", "date": "2021-02-01T00:00:00"},
			  {"id": 4, "_embedded": {"wp:featuredmedia": [{"source_url": "{{host}}/wp-content/uploads/2021/01/a.png"}]}}]`,
		}
		site.listings["media"] = []string{
			`[{"id": 5, "source_url": "{{host}}/wp-content/uploads/2021/03/c.jpeg"},
			  {"id": 6, "source_url": "{{host}}/wp-content/uploads/2021/01/a.jpg"}]`,
		}
		site.files["/wp-content/uploads/2021/01/a.mp4"] = "video/mp4"
		site.files["/wp-content/uploads/2021/02/b.mov"] = "video/quicktime"
		site.files["/wp-content/uploads/2021/03/c.mp4"] = "video/mp4"

		base := api.Config{URL: site.server.URL}

		Convey("Fast mode yields every distinct confirmed post URL once", func() {
			cfgs, err := Plan(base, "fast", nil, nil)
			So(err, ShouldBeNil)

			var got []string
			for url, err := range newFinder(site).Find(context.Background(), cfgs...) {
				So(err, ShouldBeNil)
				got = append(got, url)
			}

			So(got, ShouldResemble, []string{
				site.url("/wp-content/uploads/2021/01/a.mp4"),
				site.url("/wp-content/uploads/2021/02/b.mov"),
			})
			So(site.getCount(), ShouldEqual, 2)
		})

		Convey("Slow mode merges posts and media into one set", func() {
			cfgs, err := Plan(base, "slow", nil, nil)
			So(err, ShouldBeNil)

			f := newFinder(site)
			urls, err := f.Collect(context.Background(), cfgs...)
			So(err, ShouldBeNil)
			So(urls, ShouldResemble, []string{
				site.url("/wp-content/uploads/2021/01/a.mp4"),
				site.url("/wp-content/uploads/2021/02/b.mov"),
				site.url("/wp-content/uploads/2021/03/c.mp4"),
			})
			So(f.Results().Len(), ShouldEqual, 3)
			So(site.getCount(), ShouldEqual, 3)
		})

		Convey("Running twice gives the same set", func() {
			cfgs, _ := Plan(base, "slow", nil, nil)
			first, err := newFinder(site).Collect(context.Background(), cfgs...)
			So(err, ShouldBeNil)
			second, err := newFinder(site).Collect(context.Background(), cfgs...)
			So(err, ShouldBeNil)
			So(second, ShouldResemble, first)
		})

		Convey("Stopping early fetches no further pages", func() {
			cfgs, _ := Plan(base, "slow", nil, nil)
			for range newFinder(site).Find(context.Background(), cfgs...) {
				break
			}
			So(site.getCount(), ShouldEqual, 1)
		})

		Convey("Observers see pages, items and confirmations", func() {
			var (
				mu                     sync.Mutex
				pages, items, confirms int
				strategies             []string
			)

			cfgs, _ := Plan(base, "fast", nil, nil)
			f := newFinder(site, WithWorkers(1), WithObserver(Observer{
				OnPage: func(api.Page) { mu.Lock(); pages++; mu.Unlock() },
				OnItem: func(_ api.Item, res Resolution) {
					mu.Lock()
					items++
					strategies = append(strategies, res.Strategy)
					mu.Unlock()
				},
				OnConfirmed: func(string) { mu.Lock(); confirms++; mu.Unlock() },
			}))

			_, err := f.Collect(context.Background(), cfgs...)
			So(err, ShouldBeNil)
			So(pages, ShouldEqual, 2)
			So(items, ShouldEqual, 4)
			So(confirms, ShouldEqual, 2)
			So(strategies, ShouldResemble, []string{"featured", "", "slug", "featured"})
		})

		Convey("A shared result set deduplicates across finders", func() {
			shared := NewResultSet()
			shared.Add(site.url("/wp-content/uploads/2021/01/a.mp4"))

			cfgs, _ := Plan(base, "fast", nil, nil)
			var got []string
			for url, err := range newFinder(site, WithResultSet(shared)).Find(context.Background(), cfgs...) {
				So(err, ShouldBeNil)
				got = append(got, url)
			}

			So(got, ShouldResemble, []string{site.url("/wp-content/uploads/2021/02/b.mov")})
			So(shared.Len(), ShouldEqual, 2)
		})
	})

	Convey("Given a site without the REST API", t, func() {
		site := newFakeSite()
		defer site.server.Close()

		Convey("The crawl fails with a protocol error", func() {
			_, err := newFinder(site).Collect(context.Background(), api.Config{URL: site.server.URL})
			So(errors.Is(err, api.ErrProtocol), ShouldBeTrue)
		})
	})

	Convey("Given a cancelled context", t, func() {
		site := newFakeSite()
		defer site.server.Close()
		site.listings["posts"] = []string{`[]`}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newFinder(site).Collect(ctx, api.Config{URL: site.server.URL})
		So(errors.Is(err, api.ErrTransport), ShouldBeTrue)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})

	Convey("Given an empty base URL", t, func() {
		site := newFakeSite()
		defer site.server.Close()

		_, err := newFinder(site).Collect(context.Background(), api.Config{})
		So(errors.Is(err, api.ErrConfiguration), ShouldBeTrue)
		So(site.getCount(), ShouldEqual, 0)
	})
}

func TestPlan(t *testing.T) {
	Convey("Plan", t, func() {
		base := api.Config{URL: "http://example.com", Exclude: []uint{9}}

		fast, err := Plan(base, "fast", []uint{1}, []uint{2})
		So(err, ShouldBeNil)
		So(fast, ShouldHaveLength, 1)
		So(fast[0].Target, ShouldResemble, api.PostsTarget([]uint{1}, []uint{2}))
		So(fast[0].Exclude, ShouldResemble, []uint{9})

		slow, err := Plan(base, "slow", nil, nil)
		So(err, ShouldBeNil)
		So(slow, ShouldHaveLength, 2)
		So(slow[0].Target.Kind, ShouldEqual, api.Posts)
		So(slow[1].Target.Kind, ShouldEqual, api.Media)

		_, err = Plan(base, "thorough", nil, nil)
		So(errors.Is(err, api.ErrConfiguration), ShouldBeTrue)
	})
}
