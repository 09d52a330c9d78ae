// Package cmd implements the pf command-line interface.
package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/color"
	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/finder"
	"github.com/pf-cli/pf/icon"
	"github.com/pf-cli/pf/key"
	"github.com/pf-cli/pf/log"
	"github.com/pf-cli/pf/mime"
	"github.com/pf-cli/pf/output"
	"github.com/pf-cli/pf/sites"
	"github.com/pf-cli/pf/style"
	"github.com/pf-cli/pf/util"
	"github.com/pf-cli/pf/version"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant: emoji, nerd or plain")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	flags := rootCmd.Flags()

	flags.String("before", "", "Only items published before this ISO 8601 date")
	flags.String("modified-before", "", "Only items modified before this ISO 8601 date")
	flags.String("after", "", "Only items published after this ISO 8601 date")
	flags.String("modified-after", "", "Only items modified after this ISO 8601 date")
	flags.UintSliceP("exclude", "e", nil, "Item IDs to skip")
	flags.UintSlice("categories-exclude", nil, "Post category IDs to skip")
	flags.UintSlice("tags-exclude", nil, "Post tag IDs to skip")
	flags.Bool("since-last", false, "Only items published after the previous run of this site")
	rootCmd.MarkFlagsMutuallyExclusive("since-last", "after")

	flags.StringSliceP("mime", "m", nil, "Video extensions to look for")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("mime", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return mime.Known(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.MimeExtensions, flags.Lookup("mime")))

	flags.StringP("output", "o", "", "Output format: plain, json or yaml")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return output.Formats(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.OutputFormat, flags.Lookup("output")))

	flags.Bool("progress", true, "Show a spinner on stderr while crawling")
	lo.Must0(viper.BindPFlag(key.OutputProgress, flags.Lookup("progress")))

	flags.Bool("robots", false, "Refuse to crawl when robots.txt disallows the REST API")
	lo.Must0(viper.BindPFlag(key.RobotsCheck, flags.Lookup("robots")))

	flags.Uint("retries", 0, "Retries for a failed listing request")
	lo.Must0(viper.BindPFlag(key.PaginatorRetries, flags.Lookup("retries")))

	flags.Float64("rate", 0, "Maximum requests per second, 0 for no limit")
	lo.Must0(viper.BindPFlag(key.NetworkRateLimit, flags.Lookup("rate")))

	flags.Bool("tls-fingerprint", false, "Mimic a Chrome TLS handshake")
	lo.Must0(viper.BindPFlag(key.TLSFingerprint, flags.Lookup("tls-fingerprint")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify(cmd.Context(), http.DefaultClient, cmd.ErrOrStderr())
	})
}

var rootCmd = &cobra.Command{
	Use:   constant.Pf + " [site] [fast|slow]",
	Short: "Find the videos a WordPress site serves",
	Long: style.Bold(constant.Pf) + " " +
		style.New().Italic(true).Foreground(color.Purple).Render("- find the videos a WordPress site serves") + `

Walks the site's REST API listings, extracts candidate video addresses from
every item and confirms each one with a HEAD request. Confirmed URLs are
printed as soon as they are found.

fast reads posts only, slow also reads the media library.`,
	Example: "  pf https://example.com\n  pf https://example.com slow --after 2023-01-01T00:00:00 -o json",
	Args:    cobra.MaximumNArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		switch len(args) {
		case 0:
			return sites.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
		case 1:
			return finder.Modes, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.SetContext(cmd.Context())
			versionCmd.Run(versionCmd, args)
			return
		}

		opts, err := runOptionsFromFlags(cmd, args)
		handleErr(err)
		handleErr(run(cmd.Context(), opts, cmd.OutOrStdout(), os.Stderr))
	},
}

// Execute runs the command line.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// errorKind names the failure class for the user.
func errorKind(err error) string {
	switch {
	case errors.Is(err, api.ErrConfiguration):
		return "invalid input"
	case errors.Is(err, api.ErrTransport):
		return "network failure"
	case errors.Is(err, api.ErrProtocol):
		return "unexpected response"
	default:
		return "error"
	}
}

func handleErr(err error) {
	if err == nil {
		return
	}

	log.Error(err)
	_, _ = fmt.Fprintf(
		os.Stderr,
		"%s %s %s\n",
		icon.Get(icon.Fail),
		style.ErrorTitle(util.Capitalize(errorKind(err))),
		strings.Trim(err.Error(), " \n"),
	)
	os.Exit(1)
}
