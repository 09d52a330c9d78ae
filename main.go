// Command pf finds the videos a WordPress site serves through its REST API.
package main

import (
	"github.com/pf-cli/pf/cmd"
	"github.com/pf-cli/pf/config"
	"github.com/pf-cli/pf/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go log.CollectGarbage()

	cmd.Execute()
}
