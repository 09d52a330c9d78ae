package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pf-cli/pf/color"
	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/key"
	"github.com/pf-cli/pf/style"
	"github.com/spf13/viper"
)

// Notify prints an update banner to w when cli.version_check is on and a
// newer release exists. It never blocks for more than a few seconds.
func Notify(ctx context.Context, client *http.Client, w io.Writer) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	latest, ok := Newer(ctx, client)
	if !ok {
		return
	}

	fmt.Fprintf(w, "\n%s New version is available %s %s\n%s\n\n",
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint("https://github.com/pf-cli/pf/releases/tag/v"+latest),
	)
}
