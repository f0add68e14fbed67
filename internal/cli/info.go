// internal/cli/info.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	infoVersion    string
	infoPrerelease bool
)

var infoCmd = &cobra.Command{
	Use:   "info [package]",
	Short: "Show information about a package",
	Long:  `Look a package up in the configured sources without installing it.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVar(&infoVersion, "version", "", "version spec")
	infoCmd.Flags().BoolVar(&infoPrerelease, "prerelease", false, "consider prerelease versions")
}

func runInfo(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}

	info, err := m.Info(cmd.Context(), args[0], infoVersion, infoPrerelease)
	if err != nil {
		return err
	}

	// Display info
	fmt.Printf("Package: %s\n", info.ID)
	fmt.Printf("Version: %s\n", info.Version)
	fmt.Printf("Source: %s\n", info.Source)
	if info.Authors != "" {
		fmt.Printf("Authors: %s\n", info.Authors)
	}
	if info.ProjectURL != "" {
		fmt.Printf("Project: %s\n", info.ProjectURL)
	}
	if len(info.Dependencies) > 0 {
		fmt.Printf("Dependencies: %s\n", strings.Join(info.Dependencies, ", "))
	}
	if info.Description != "" {
		fmt.Printf("Description: %s\n", info.Description)
	}

	return nil
}
