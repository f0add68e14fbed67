// internal/cli/sources.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Show the package sources in search order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newManager()
		if err != nil {
			return err
		}
		for i, s := range m.Sources() {
			fmt.Printf("%d. %s\n", i+1, s)
		}
		return nil
	},
}
