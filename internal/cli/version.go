// internal/cli/version.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("extpkg version %s\n", rootCmd.Version)
		fmt.Println("Extension package installer")
		fmt.Println("https://github.com/arc-language/extpkg")
	},
}
