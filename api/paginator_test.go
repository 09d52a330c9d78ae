package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

// pagedServer serves n listing pages, each linking to the following one.
func pagedServer(n int, hits *atomic.Int32) *httptest.Server {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		page := 1
		if p := r.URL.Query().Get("page"); p != "" {
			page, _ = strconv.Atoi(p)
		}

		if page < n {
			next := fmt.Sprintf("%s%s?per_page=100&page=%d", server.URL, r.URL.Path, page+1)
			w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
		}

		_, _ = fmt.Fprintf(w, `[{"id": %d}, {"id": %d}]`, page*10, page*10+1)
	}))
	return server
}

func TestPaginator(t *testing.T) {
	Convey("Given a site with three pages", t, func() {
		var hits atomic.Int32
		server := pagedServer(3, &hits)
		defer server.Close()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL, Target: MediaTarget()})
		So(err, ShouldBeNil)

		Convey("Every page is fetched exactly once, then EOF", func() {
			var ids []uint64
			for {
				page, err := p.Next(context.Background())
				if errors.Is(err, io.EOF) {
					break
				}
				So(err, ShouldBeNil)
				for _, item := range page.Items {
					ids = append(ids, item.ID())
				}
			}

			So(ids, ShouldResemble, []uint64{10, 11, 20, 21, 30, 31})
			So(hits.Load(), ShouldEqual, 3)
			So(p.Fetched(), ShouldEqual, 3)
			So(p.Exhausted(), ShouldBeTrue)

			_, err := p.Next(context.Background())
			So(err, ShouldEqual, io.EOF)
			So(hits.Load(), ShouldEqual, 3)
		})

		Convey("The first request targets the built listing URL", func() {
			page, err := p.Next(context.Background())
			So(err, ShouldBeNil)
			So(page.URL, ShouldEqual, server.URL+"/wp-json/wp/v2/media?per_page=100")
		})
	})

	Convey("Given an empty base URL", t, func() {
		_, err := NewPaginator(http.DefaultClient, Config{})
		So(errors.Is(err, ErrConfiguration), ShouldBeTrue)
	})

	Convey("Given a listing that answers 404", t, func() {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL, Target: MediaTarget()})
		So(err, ShouldBeNil)

		_, err = p.Next(context.Background())
		So(errors.Is(err, ErrProtocol), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, "failed to fetch URL, status code: 404 Not Found")

		Convey("It is not retried and ends the walk", func() {
			So(hits.Load(), ShouldEqual, 1)
			_, err = p.Next(context.Background())
			So(err, ShouldEqual, io.EOF)
		})
	})

	Convey("Given a listing that is not a JSON array", t, func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"rest_invalid_param"}`)
		}))
		defer server.Close()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL})
		So(err, ShouldBeNil)

		_, err = p.Next(context.Background())
		So(errors.Is(err, ErrProtocol), ShouldBeTrue)
	})

	Convey("Given a null listing that still links to a next page", t, func() {
		var hits atomic.Int32
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next"`, server.URL, r.URL.Path))
			_, _ = io.WriteString(w, `null`)
		}))
		defer server.Close()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL}, WithRetries(0))
		So(err, ShouldBeNil)

		Convey("The walk stops with a protocol error", func() {
			_, err = p.Next(context.Background())
			So(errors.Is(err, ErrProtocol), ShouldBeTrue)
			So(p.Exhausted(), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 1)
		})
	})

	Convey("Given a site that splits its Link header over two lines", t, func() {
		var hits atomic.Int32
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			if r.URL.Query().Get("page") == "" {
				w.Header().Add("Link", fmt.Sprintf(`<%s/wp-json/>; rel="https://api.w.org/"`, server.URL))
				w.Header().Add("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next"`, server.URL, r.URL.Path))
			}
			_, _ = io.WriteString(w, `[{"id": 1}]`)
		}))
		defer server.Close()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL, Target: MediaTarget()})
		So(err, ShouldBeNil)

		Convey("The next page is still followed", func() {
			for !p.Exhausted() {
				_, err := p.Next(context.Background())
				So(err, ShouldBeNil)
			}
			So(p.Fetched(), ShouldEqual, 2)
			So(hits.Load(), ShouldEqual, 2)
		})
	})

	Convey("Given a listing that fails once with 503", t, func() {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, `[]`)
		}))
		defer server.Close()

		Convey("It is retried", func() {
			p, err := NewPaginator(server.Client(), Config{URL: server.URL}, WithRetries(2))
			So(err, ShouldBeNil)

			page, err := p.Next(context.Background())
			So(err, ShouldBeNil)
			So(page.Items, ShouldBeEmpty)
			So(hits.Load(), ShouldEqual, 2)
		})

		Convey("Without retries it is fatal", func() {
			p, err := NewPaginator(server.Client(), Config{URL: server.URL}, WithRetries(0))
			So(err, ShouldBeNil)

			_, err = p.Next(context.Background())
			So(errors.Is(err, ErrProtocol), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "503")
		})
	})

	Convey("Given an unreachable site", t, func() {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		p, err := NewPaginator(http.DefaultClient, Config{URL: url}, WithRetries(0))
		So(err, ShouldBeNil)

		_, err = p.Next(context.Background())
		So(errors.Is(err, ErrTransport), ShouldBeTrue)
	})

	Convey("Given a cancelled context", t, func() {
		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p, err := NewPaginator(server.Client(), Config{URL: server.URL})
		So(err, ShouldBeNil)

		_, err = p.Next(ctx)
		So(errors.Is(err, ErrTransport), ShouldBeTrue)
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}
