package worker

import (
	"github.com/spf13/cobra"

	"github.com/cmflairs/gateway/internal/business"
	"github.com/cmflairs/gateway/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"worker",
		"Gateway refresh worker",
		"Gateway refresh worker consumes queued game-data refresh tasks",
		buildInfo,
		cmdutils.RunAsService,
		business.WorkerMain,
	)
}
