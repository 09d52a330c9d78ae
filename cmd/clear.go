package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/pf-cli/pf/icon"
	"github.com/pf-cli/pf/style"
	"github.com/pf-cli/pf/util"
	"github.com/pf-cli/pf/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache},
	{"run history", "history", mo.Some("H"), where.History},
	{"site suggestions", "sites", mo.Some("s"), where.Sites},
	{"logs", "logs", mo.Some("l"), where.Logs},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if short, ok := target.argShort.Get(); ok {
			clearCmd.Flags().BoolP(target.argLong, short, false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete cached and recorded pf data",
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			err := util.Delete(target.location())
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				handleErr(err)
			}

			cmd.Printf("%s %s cleared\n", style.Success(icon.Get(icon.Success)), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
