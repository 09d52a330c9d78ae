package log

import (
	"os"
	"strings"
	"time"

	"github.com/pf-cli/pf/filesystem"
	"github.com/pf-cli/pf/where"
	"github.com/spf13/afero"
)

// TTL is how long a daily log file is kept.
const TTL = 14 * 24 * time.Hour

// CollectGarbage removes log files not touched within TTL and returns how
// many were removed. Errors on individual files are skipped.
func CollectGarbage() int {
	fs := filesystem.API()
	cutoff := time.Now().Add(-TTL)

	var removed int
	_ = afero.Walk(fs, where.Logs(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, ".log") {
			return nil
		}

		if info.ModTime().Before(cutoff) && fs.Remove(path) == nil {
			removed++
		}
		return nil
	})

	return removed
}
