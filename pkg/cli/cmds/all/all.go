// Package all registers every shell command.
package all

import (
	_ "github.com/robotalks/axpose/pkg/cli/cmds/bus"
	_ "github.com/robotalks/axpose/pkg/cli/cmds/motion"
)
