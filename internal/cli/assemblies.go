// internal/cli/assemblies.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var assembliesVerbose bool

var assembliesCmd = &cobra.Command{
	Use:   "assemblies",
	Short: "List the installed assemblies the target framework can load",
	Args:  cobra.NoArgs,
	RunE:  runAssemblies,
}

func init() {
	assembliesCmd.Flags().BoolVarP(&assembliesVerbose, "verbose", "v", false, "group by package and explain empty packages")
}

func runAssemblies(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}

	if !assembliesVerbose {
		paths, err := m.Assemblies(cmd.Context())
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Println(p)
		}
		return nil
	}

	sets, err := m.AssemblySets(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Target: %s\n", m.Target())
	for _, s := range sets {
		nearest := "any"
		if s.Nearest != nil {
			nearest = s.Nearest.String()
		}
		fmt.Printf("\n%s %s (%s)\n", s.Package.ID, s.Package.Version, nearest)
		if len(s.Assemblies) == 0 {
			fmt.Printf("  none: %s\n", s.Reason)
			continue
		}
		for _, p := range s.Assemblies {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
