package command

import gocmd "github.com/goliatone/go-command"

var (
	_ gocmd.Commander[SetKillSwitchMessage] = (*SetKillSwitchCommand)(nil)
	_ gocmd.Commander[SetModeMessage]       = (*SetModeCommand)(nil)
)
