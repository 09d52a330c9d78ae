package util

import (
	"regexp"
	"testing"

	"github.com/pf-cli/pf/filesystem"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "url", "urls"), ShouldEqual, "1 url")
		So(Quantify(0, "url", "urls"), ShouldEqual, "0 urls")
		So(Quantify(2, "url", "urls"), ShouldEqual, "2 urls")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestReGroups(t *testing.T) {
	Convey("ReGroups", t, func() {
		re := regexp.MustCompile(`(?P<year>\d{4})-(?P<month>\d{2})`)

		Convey("Named groups of a match are returned", func() {
			groups := ReGroups(re, "date: 2023-04-12")
			So(groups["year"], ShouldEqual, "2023")
			So(groups["month"], ShouldEqual, "04")
		})

		Convey("No match gives an empty map", func() {
			So(ReGroups(re, "no date"), ShouldBeEmpty)
		})
	})
}

func TestDelete(t *testing.T) {
	Convey("Given a directory with a file", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/pf/dir", 0o755), ShouldBeNil)
		So(afero.WriteFile(fs, "/tmp/pf/dir/file", []byte("x"), 0o644), ShouldBeNil)

		Convey("A file can be deleted", func() {
			So(Delete("/tmp/pf/dir/file"), ShouldBeNil)
			exists, _ := afero.Exists(fs, "/tmp/pf/dir/file")
			So(exists, ShouldBeFalse)
		})

		Convey("A directory is deleted recursively", func() {
			So(Delete("/tmp/pf/dir"), ShouldBeNil)
			exists, _ := afero.Exists(fs, "/tmp/pf/dir")
			So(exists, ShouldBeFalse)
		})

		Convey("Missing paths are an error", func() {
			So(Delete("/tmp/pf/missing"), ShouldNotBeNil)
		})
	})
}

func TestSet(t *testing.T) {
	Convey("Given an empty set", t, func() {
		var s Set[string]

		So(s.Len(), ShouldEqual, 0)
		So(s.Slice(), ShouldBeNil)
		So(s.Has("a"), ShouldBeFalse)

		Convey("Add reports only the first insertion", func() {
			So(s.Add("b"), ShouldBeTrue)
			So(s.Add("a"), ShouldBeTrue)
			So(s.Add("b"), ShouldBeFalse)
			So(s.Len(), ShouldEqual, 2)
			So(s.Has("a"), ShouldBeTrue)
			So(s.Slice(), ShouldResemble, []string{"a", "b"})
		})
	})

	Convey("SyncSet accepts concurrent adds", t, func() {
		var s SyncSet[int]
		done := make(chan bool)
		for i := range 4 {
			go func() {
				for j := range 100 {
					s.Add(j % 50)
				}
				done <- i >= 0
			}()
		}
		for range 4 {
			<-done
		}

		So(s.Len(), ShouldEqual, 50)
		So(s.Has(49), ShouldBeTrue)
		So(s.Slice()[0], ShouldEqual, 0)
	})
}
