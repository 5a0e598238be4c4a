// Package main is the entry point for the tvzap application.
package main

import (
	"github.com/samber/lo"
	"github.com/tvzap/tvzap/cmd"
	"github.com/tvzap/tvzap/config"
	"github.com/tvzap/tvzap/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
