// Package main is the entry point for tsukimi.
package main

import (
	"github.com/samber/lo"

	"github.com/tsukinaha/tsukimi-sub001/cmd"
	"github.com/tsukinaha/tsukimi-sub001/config"
	"github.com/tsukinaha/tsukimi-sub001/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
