package migrate

import (
	"github.com/spf13/cobra"

	"github.com/cmflairs/gateway/internal/business"
	"github.com/cmflairs/gateway/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Gateway migrations",
		"Gateway migrations apply the database schema",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
