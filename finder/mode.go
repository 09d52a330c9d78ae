package finder

import (
	"fmt"

	"github.com/pf-cli/pf/api"
	"github.com/pf-cli/pf/constant"
)

// Modes lists the accepted crawl modes.
var Modes = []string{constant.ModeFast, constant.ModeSlow}

// Plan expands a crawl mode into the configs to walk, in order. Fast mode
// only reads posts; slow mode reads posts and then the media library.
func Plan(base api.Config, mode string, categoriesExclude, tagsExclude []uint) ([]api.Config, error) {
	posts := base.WithTarget(api.PostsTarget(categoriesExclude, tagsExclude))

	switch mode {
	case constant.ModeFast:
		return []api.Config{posts}, nil
	case constant.ModeSlow:
		return []api.Config{posts, base.WithTarget(api.MediaTarget())}, nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %q, expected one of %v", api.ErrConfiguration, mode, Modes)
	}
}
