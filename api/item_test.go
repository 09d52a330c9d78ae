package api

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParseItems(t *testing.T) {
	Convey("Given a listing body", t, func() {
		Convey("An array of objects decodes into items", func() {
			items, err := ParseItems([]byte(`[{"id": 12, "link": "http://h/a"}, 3, null, {"content": {"rendered": "x"}}]`))
			So(err, ShouldBeNil)
			So(items, ShouldHaveLength, 4)
			So(items[0].ID(), ShouldEqual, uint64(12))
			So(items[0].String("link").MustGet(), ShouldEqual, "http://h/a")
			So(items[1], ShouldBeEmpty)
			So(items[2], ShouldBeEmpty)
			So(items[3].String("content", "rendered").MustGet(), ShouldEqual, "x")
		})

		Convey("An object is a protocol error", func() {
			_, err := ParseItems([]byte(`{"code": "rest_no_route"}`))
			So(errors.Is(err, ErrProtocol), ShouldBeTrue)
		})

		Convey("A null body is a protocol error", func() {
			items, err := ParseItems([]byte(`null`))
			So(errors.Is(err, ErrProtocol), ShouldBeTrue)
			So(items, ShouldBeNil)
		})

		Convey("An empty array is an empty page", func() {
			items, err := ParseItems([]byte(`[]`))
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})

		Convey("Malformed JSON is a protocol error", func() {
			_, err := ParseItems([]byte(`[{"id": 1`))
			So(errors.Is(err, ErrProtocol), ShouldBeTrue)
		})
	})
}

func TestItemAccessors(t *testing.T) {
	Convey("Given an item with nested fields", t, func() {
		items, err := ParseItems([]byte(`[{
			"_embedded": {"wp:featuredmedia": [{"source_url": "a"}, "junk", {"source_url": 5}]},
			"title": {"rendered": 7}
		}]`))
		So(err, ShouldBeNil)
		item := items[0]

		Convey("Items keeps only object elements", func() {
			media := item.Items("_embedded", "wp:featuredmedia")
			So(media, ShouldHaveLength, 2)
			So(media[0].String("source_url").MustGet(), ShouldEqual, "a")
			So(media[1].String("source_url").IsAbsent(), ShouldBeTrue)
		})

		Convey("Mistyped or missing paths read as absent", func() {
			So(item.String("title", "rendered").IsAbsent(), ShouldBeTrue)
			So(item.String("missing").IsAbsent(), ShouldBeTrue)
			So(item.String("title", "rendered", "deeper").IsAbsent(), ShouldBeTrue)
			So(item.Items("title"), ShouldBeNil)
			So(item.ID(), ShouldEqual, uint64(0))
		})
	})
}
