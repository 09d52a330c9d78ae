package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/auth"
	"github.com/pf-cli/pf/color"
	"github.com/pf-cli/pf/icon"
	"github.com/pf-cli/pf/sites"
	"github.com/pf-cli/pf/style"
	"github.com/pf-cli/pf/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func completionSites(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return sites.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage WordPress application passwords",
	Long: `Manage WordPress application passwords.

Credentials live in the system keyring and are sent as HTTP basic auth to
the host they were stored for. They unlock listings of private content.`,
}

func init() {
	authCmd.AddCommand(authSetCmd)
	authSetCmd.Flags().StringP("user", "u", "", "WordPress user name")
	authSetCmd.Flags().Bool("password-stdin", false, "Read the password from stdin instead of prompting")
}

var authSetCmd = &cobra.Command{
	Use:               "set <site>",
	Short:             "Store credentials for a site",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSites,
	Run: func(cmd *cobra.Command, args []string) {
		site := args[0]
		user := lo.Must(cmd.Flags().GetString("user"))

		if user == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "User"}, &user, survey.WithValidator(survey.Required)))
		}

		var password string
		if lo.Must(cmd.Flags().GetBool("password-stdin")) || !util.IsTerminal(os.Stdin) {
			data, err := readAllTrimmed(cmd.InOrStdin())
			handleErr(err)
			password = data
		} else {
			handleErr(survey.AskOne(&survey.Password{
				Message: "Application password",
				Help:    "Create one under Users > Profile > Application Passwords",
			}, &password, survey.WithValidator(survey.Required)))
		}

		if password == "" {
			handleErr(fmt.Errorf("%w: empty password", api.ErrConfiguration))
		}

		handleErr(auth.Set(site, auth.Credentials{User: user, Password: password}))

		host := lo.Must(auth.Host(site))
		cmd.Printf("%s stored credentials of %s for %s\n",
			style.Success(icon.Get(icon.Success)),
			style.Fg(color.Yellow)(user),
			style.Fg(color.Purple)(host),
		)
	},
}

func init() {
	authCmd.AddCommand(authDeleteCmd)
}

var authDeleteCmd = &cobra.Command{
	Use:               "delete <site>",
	Short:             "Remove stored credentials of a site",
	Aliases:           []string{"remove"},
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSites,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.Delete(args[0]))
		cmd.Printf("%s deleted credentials for %s\n", style.Success(icon.Get(icon.Success)), args[0])
	},
}

// readAllTrimmed reads r to the end and drops surrounding whitespace.
func readAllTrimmed(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
