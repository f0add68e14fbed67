// internal/cli/list.go
package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed packages",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}

	packages, err := m.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(packages) == 0 {
		fmt.Printf("No packages installed in %s\n", m.PackagesPath())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tVERSION\tCONTENT\tLIBS")
	for _, p := range packages {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", p.ID, p.Version, len(p.ContentFiles), len(p.LibFiles))
	}
	return w.Flush()
}
