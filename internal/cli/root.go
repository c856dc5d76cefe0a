// Package cli implements the wikid command-line interface: a thin
// cobra harness around the LSP server, config scaffolding, and version
// reporting.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wrenote/wikid/internal/config"
)

var (
	vaultPathFlag string
	debugFlag     bool
	jsonOutput    bool

	resolvedConfigPath string
	cfg                *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "wikid",
	Short: "wikid - a language server for wikilink-flavored markdown vaults",
	Long: `wikid speaks the Language Server Protocol over stdin/stdout for a
directory of plain-text markdown notes linked with [[wikilink]] syntax
and tagged via frontmatter tags: arrays.

It has no CLI-driven note operations of its own: point your editor at
"wikid serve" and it takes over from there.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, resolvedConfigPath, err = loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		if debugFlag {
			cfg.Debug = true
		}
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vaultPathFlag, "vault-path", "", "Path to the vault directory (workspace root)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

func loadConfig() (*config.Config, string, error) {
	loaded, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	if loaded == nil {
		loaded = &config.Config{}
	}
	return loaded, config.DefaultPath(), nil
}

// resolveVaultPath prefers the explicit flag, then the config file, then
// the current working directory, for the case where the CLI, not the
// LSP client's initialize request, supplies the workspace root.
func resolveVaultPath() string {
	if vaultPathFlag != "" {
		return vaultPathFlag
	}
	if cfg != nil && cfg.VaultPath != "" {
		return cfg.VaultPath
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
