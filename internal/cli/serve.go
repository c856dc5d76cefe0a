package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wrenote/wikid/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Language Server Protocol server",
	Long: `Start a Language Server Protocol (LSP) server for a wikilink vault.

This enables editor features like:
- Autocomplete for wikilinks ([[) and frontmatter tags
- Go-to-definition and find-references for wikilinks and tags
- Hover previews
- Real-time diagnostics for unresolved wikilinks
- Rename that keeps every referencing link in sync

The server communicates over stdin/stdout using JSON-RPC.

Examples:
  # Start the server (for editor integration)
  wikid serve

  # Start with debug logging to stderr
  wikid serve --debug

  # Start for a specific vault
  wikid serve --vault-path /path/to/vault`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	vaultPath := resolveVaultPath()

	server := lsp.NewServer(vaultPath, cfg, cfg.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return server.Run(ctx)
}
