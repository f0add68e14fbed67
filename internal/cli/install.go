// internal/cli/install.go
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arc-language/extpkg/pkg/install"
)

var (
	installVersion    string
	installSources    []string
	installExclusive  bool
	installPrerelease bool
)

var installCmd = &cobra.Command{
	Use:   "install [package...]",
	Short: "Install the configured packages",
	Long: `Install every package listed in the config file, plus any given on the
command line.

Examples:
  extpkg install
  extpkg install Newtonsoft.Json --version "[13.0,14.0)"
  extpkg install MyPlugin --source ./feed --exclusive
  extpkg install --update`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "version spec for packages named on the command line")
	installCmd.Flags().StringSliceVar(&installSources, "source", nil, "extra source for packages named on the command line")
	installCmd.Flags().BoolVar(&installExclusive, "exclusive", false, "search only --source for packages named on the command line")
	installCmd.Flags().BoolVar(&installPrerelease, "prerelease", false, "allow prerelease versions for packages named on the command line")
}

func runInstall(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, err := newManager()
	if err != nil {
		return err
	}

	for _, id := range args {
		req := install.Request{
			ID:              id,
			Sources:         installSources,
			VersionSpec:     installVersion,
			AllowPrerelease: installPrerelease,
			Exclusive:       installExclusive,
		}
		if err := m.Installer().AddPackage(req); err != nil {
			return err
		}
	}

	if len(m.Requests()) == 0 {
		fmt.Println("No packages to install.")
		return nil
	}

	results, err := m.Install(ctx, config.Update)
	for _, r := range results {
		switch r.Status {
		case install.StatusInstalled:
			fmt.Printf("✓ %s %s\n", r.Package.ID, r.Package.Version)
			for _, p := range r.ContentPaths {
				fmt.Printf("    input: %s\n", p)
			}
		default:
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", r.Request, r.Status)
		}
	}
	return err
}
