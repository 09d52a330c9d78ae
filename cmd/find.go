package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/auth"
	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/finder"
	"github.com/pf-cli/pf/history"
	"github.com/pf-cli/pf/key"
	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/mime"
	"github.com/pf-cli/pf/network"
	"github.com/pf-cli/pf/output"
	"github.com/pf-cli/pf/probe"
	"github.com/pf-cli/pf/progress"
	"github.com/pf-cli/pf/robots"
	"github.com/pf-cli/pf/sites"
	"github.com/pf-cli/pf/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runOptions is everything a crawl needs besides the loaded configuration.
type runOptions struct {
	Mode              string
	Base              api.Config
	CategoriesExclude []uint
	TagsExclude       []uint
	SinceLast         bool
}

func runOptionsFromFlags(cmd *cobra.Command, args []string) (runOptions, error) {
	var (
		flags = cmd.Flags()
		opts  = runOptions{Mode: constant.ModeFast}
		site  string
	)

	switch len(args) {
	case 2:
		site, opts.Mode = args[0], args[1]
	case 1:
		site = args[0]
	default:
		if !util.IsTerminal(os.Stdin) {
			return opts, fmt.Errorf("%w: site address is required", api.ErrConfiguration)
		}

		var err error
		if site, opts.Mode, err = promptSiteAndMode(); err != nil {
			return opts, err
		}
	}

	dateFlag := func(name string) mo.Option[string] {
		value := lo.Must(flags.GetString(name))
		if value == "" {
			return mo.None[string]()
		}
		return mo.Some(value)
	}

	opts.Base = api.Config{
		URL:            site,
		Before:         dateFlag("before"),
		ModifiedBefore: dateFlag("modified-before"),
		After:          dateFlag("after"),
		ModifiedAfter:  dateFlag("modified-after"),
		Exclude:        lo.Must(flags.GetUintSlice("exclude")),
	}
	opts.CategoriesExclude = lo.Must(flags.GetUintSlice("categories-exclude"))
	opts.TagsExclude = lo.Must(flags.GetUintSlice("tags-exclude"))
	opts.SinceLast = lo.Must(flags.GetBool("since-last"))

	return opts, nil
}

// run crawls the site and writes results to stdout. Progress goes to stderr
// when it is a terminal; pass nil to disable it.
func run(ctx context.Context, opts runOptions, stdout io.Writer, stderr *os.File) error {
	base := opts.Base

	if opts.SinceLast {
		if last, ok := history.Last(base.URL).Get(); ok {
			base.After = mo.Some(last.FinishedAt.UTC().Format(time.RFC3339))
			log.Infof("continuing %s after %s", base.URL, base.After.MustGet())
		}
	}

	if err := base.Validate(); err != nil {
		return err
	}

	registry, err := mime.New(viper.GetStringSlice(key.MimeExtensions)...)
	if err != nil {
		return fmt.Errorf("%w: %w", api.ErrConfiguration, err)
	}

	writer, err := output.New(viper.GetString(key.OutputFormat), stdout)
	if err != nil {
		return err
	}

	cfgs, err := finder.Plan(base, opts.Mode, opts.CategoriesExclude, opts.TagsExclude)
	if err != nil {
		return err
	}

	clientOpts := network.OptionsFromConfig()
	clientOpts.Credentials = auth.Lookup
	client := network.NewClient(clientOpts)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	if viper.GetBool(key.RobotsCheck) {
		allowed, err := robots.Allowed(ctx, client, base.URL, clientOpts.UserAgent)
		if err != nil {
			return err
		}
		if !allowed {
			return fmt.Errorf("%w: robots.txt of %s disallows the REST API", api.ErrConfiguration, base.URL)
		}
	}

	finderOpts := []finder.Option{
		finder.WithRetries(uint(max(viper.GetInt(key.PaginatorRetries), 0))),
		finder.WithWorkers(viper.GetInt(key.FinderWorkers)),
		finder.WithVerifier(probe.New(client, registry, probe.WithConcurrency(viper.GetInt(key.ProbeConcurrency)))),
	}

	var reporter *progress.Reporter
	if stderr != nil && viper.GetBool(key.OutputProgress) && util.IsTerminal(stderr) {
		reporter = progress.Start(base.URL, stderr)
		finderOpts = append(finderOpts, finder.WithObserver(reporter.Observer()))
	}

	f := finder.New(client, registry, finderOpts...)

	var findErr error
	for url, err := range f.Find(ctx, cfgs...) {
		if err != nil {
			findErr = err
			break
		}

		if err := writer.URL(url); err != nil {
			findErr = err
			break
		}
	}

	if reporter != nil {
		reporter.Stop()
	}

	if findErr != nil {
		if errors.Is(findErr, context.Canceled) {
			log.Warnf("crawl of %s interrupted after %s", base.URL, util.Quantify(f.Results().Len(), "video", "videos"))
		}
		return findErr
	}

	result := output.Result{
		Site:       base.URL,
		Mode:       opts.Mode,
		URLs:       f.Results().Slice(),
		FinishedAt: time.Now().UTC(),
	}

	if err := writer.Finish(result); err != nil {
		return err
	}

	remember(result)
	return nil
}

// remember records a finished run. Failures only cost future suggestions, so
// they are logged and not returned.
func remember(result output.Result) {
	if !viper.GetBool(key.HistorySave) {
		return
	}

	if err := history.Save(history.Run{
		Site:       result.Site,
		Mode:       result.Mode,
		Count:      len(result.URLs),
		FinishedAt: result.FinishedAt,
	}); err != nil {
		log.Warnf("saving history: %s", err)
	}

	if err := sites.Remember(history.Normalize(result.Site), 1); err != nil {
		log.Warnf("remembering site: %s", err)
	}
}
