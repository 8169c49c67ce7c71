package apiserver

import (
	"github.com/spf13/cobra"

	"github.com/cmflairs/gateway/internal/business"
	"github.com/cmflairs/gateway/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"api-server",
		"Gateway API server",
		"Gateway API server hosts the public sign-in and profile HTTP API",
		buildInfo,
		cmdutils.RunAsService,
		business.Main,
	)
}
