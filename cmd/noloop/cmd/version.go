package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	nlerror "github.com/msto63/noloop/foundation/core/error"
	"github.com/msto63/noloop/pkg/core/version"
)

var versionOutput string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		info := version.Get()
		out := cmd.OutOrStdout()

		switch versionOutput {
		case "yaml":
			return writeYAML(out, info)
		case "text":
			fmt.Fprintf(out, "noloop v%s\n", info.Application)
			fmt.Fprintf(out, "  Language:   %s\n", info.Language)
			fmt.Fprintf(out, "  Journal:    schema %s\n", info.Journal)
			fmt.Fprintf(out, "  Git Commit: %s\n", info.Commit)
			fmt.Fprintf(out, "  Build Date: %s\n", info.BuildDate)
			fmt.Fprintf(out, "  Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(out, "  OS/Arch:    %s\n", info.Platform)
			return nil
		default:
			return nlerror.Newf("unknown output format %q, use text or yaml", versionOutput).
				WithCode(nlerror.CodeInvalidInput).
				WithOperation("cli.version")
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().StringVarP(&versionOutput, "output", "o", "text", "output format: text or yaml")
}
