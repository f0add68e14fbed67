// internal/cli/root.go
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/arc-language/extpkg"
	"github.com/arc-language/extpkg/pkg/core"
)

var (
	cfgFile string
	rootDir string
	debug   bool
	update  bool
	config  *core.Config
	logger  *log.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "extpkg",
	Short: "Extension package installer",
	Long: `extpkg - Extension package installer

Fetches the NuGet packages a host application is extended with, adds their
content folders to the host's input paths and lists the assemblies the
host's target framework can load.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/extpkg/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "host root directory (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&update, "update", false, "look for newer versions of installed packages")

	// Add commands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(assembliesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	config, err = core.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		config = core.DefaultConfig()
	}

	// Override config with flags
	if rootDir != "" {
		config.Root = rootDir
	}
	if debug {
		config.Debug = true
	}
	if update {
		config.Update = true
	}

	level := log.InfoLevel
	if config.Debug {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "extpkg",
		Level:           level,
		ReportTimestamp: config.Debug,
	})
}

func newManager() (*extpkg.Manager, error) {
	m, err := extpkg.NewManager(config, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing: %w", err)
	}
	return m, nil
}
