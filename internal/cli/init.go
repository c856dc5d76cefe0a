package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wrenote/wikid/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default wikid config file",
	Long: `Writes a commented-out default configuration file to the standard
XDG config location (~/.config/wikid/config.toml) if one does not
already exist.

wikid does not require a config file: the vault path and debug settings
can also be supplied via editor-launched flags (ignore rules can only be
set in the file), and the server keeps no derived
index files on disk. This command exists only to give users a starting
point for --vault-path defaults and ignore rules.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.CreateDefault()
		if err != nil {
			return fmt.Errorf("failed to create config: %w", err)
		}
		fmt.Printf("Config file: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
