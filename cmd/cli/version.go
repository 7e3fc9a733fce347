package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		version := "unknown"
		gitCommit := ""

		if info, ok := debug.ReadBuildInfo(); ok {
			if len(info.Main.Version) > 0 {
				version = info.Main.Version
			}
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					gitCommit = setting.Value
				}
			}
		}

		fmt.Printf("rbac-migrate %s", version)
		if len(gitCommit) > 8 {
			fmt.Printf(" (git: %s)", gitCommit[:8])
		} else if len(gitCommit) > 0 {
			fmt.Printf(" (git: %s)", gitCommit)
		}
		fmt.Println()
	},
}

func init() {

	rootCmd.AddCommand(versionCmd)
}
