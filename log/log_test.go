package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pf-cli/pf/filesystem"
	"github.com/pf-cli/pf/key"
	"github.com/pf-cli/pf/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)

		Convey("Setup succeeds and nothing is enabled", func() {
			So(Setup(), ShouldBeNil)
			So(Enabled(), ShouldBeFalse)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		viper.Set(key.LogsJson, true)
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)

		Convey("Messages land in today's file", func() {
			WithFields(Fields{"site": "http://example.com"}).Info("crawl started")
			Infof("found %d", 3)

			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			data := lo.Must(filesystem.API().ReadFile(path))
			So(string(data), ShouldContainSubstring, "crawl started")
			So(string(data), ShouldContainSubstring, `"site":"http://example.com"`)
			So(string(data), ShouldContainSubstring, "found 3")
		})
	})
}

func TestCollectGarbage(t *testing.T) {
	Convey("Given an old and a fresh log file", t, func() {
		fs := filesystem.API()
		old := filepath.Join(where.Logs(), "2000-01-01.log")
		fresh := filepath.Join(where.Logs(), "fresh.log")
		other := filepath.Join(where.Logs(), "notes.txt")

		for _, path := range []string{old, fresh, other} {
			So(afero.WriteFile(fs, path, []byte("x"), 0o644), ShouldBeNil)
		}
		stale := time.Now().Add(-2 * TTL)
		So(fs.Chtimes(old, stale, stale), ShouldBeNil)
		So(fs.Chtimes(other, stale, stale), ShouldBeNil)

		Convey("Only the stale log is removed", func() {
			So(CollectGarbage(), ShouldEqual, 1)

			exists := func(path string) bool { return lo.Must(afero.Exists(fs, path)) }
			So(exists(old), ShouldBeFalse)
			So(exists(fresh), ShouldBeTrue)
			So(exists(other), ShouldBeTrue)
		})
	})
}
