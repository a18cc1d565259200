package main

import (
	"github.com/robotalks/axpose/pkg/cli/sh"
	"github.com/robotalks/axpose/pkg/env"

	_ "github.com/robotalks/axpose/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
