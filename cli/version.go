package cli

import (
	"fmt"

	"github.com/grovetools/cmux-notify/version"
	"github.com/spf13/cobra"
)

// SetVersionTemplate enables `--version` on cmd with the build metadata.
func SetVersionTemplate(cmd *cobra.Command, info version.Info) {
	cmd.Version = info.Short()
	cmd.SetVersionTemplate(fmt.Sprintf(`{{.Name}} {{.Version}}
  Built:     %s
  Platform:  %s
`, info.BuildDate, info.Platform))
}
