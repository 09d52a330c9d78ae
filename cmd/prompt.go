package cmd

import (
	"github.com/AlecAivazis/survey/v2"
	"github.com/pf-cli/pf/constant"
	"github.com/pf-cli/pf/finder"
	"github.com/pf-cli/pf/sites"
)

// promptSiteAndMode asks for the crawl target when none was given.
func promptSiteAndMode() (site, mode string, err error) {
	err = survey.AskOne(&survey.Input{
		Message: "WordPress site",
		Help:    "Base address of the site, e.g. https://example.com",
		Suggest: sites.SuggestMany,
	}, &site, survey.WithValidator(survey.Required))
	if err != nil {
		return "", "", err
	}

	err = survey.AskOne(&survey.Select{
		Message: "Mode",
		Options: finder.Modes,
		Default: constant.ModeFast,
		Description: func(value string, _ int) string {
			if value == constant.ModeSlow {
				return "posts and media library"
			}
			return "posts only"
		},
	}, &mode)
	if err != nil {
		return "", "", err
	}

	return site, mode, nil
}
