package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/richfrem/quoteagent"
	"github.com/richfrem/quoteagent/pkg/catalog"
	"github.com/richfrem/quoteagent/pkg/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog]",
	Short: "Check the question catalog for consistency",
	Long:  `Parses the catalog, reports broken links or loops, and warns about nodes that can never be asked.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd.OutOrStdout(), catalogArg(cmd, args)); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var graphCmd = &cobra.Command{
	Use:   "graph [catalog]",
	Short: "Export the catalog as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of the question flow. With --session the
nodes already answered and the current question are highlighted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")
		if sessionID == "" {
			c, err := loadCatalog(catalogArg(cmd, args))
			if err != nil {
				fmt.Printf("Error loading catalog: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprint(cmd.OutOrStdout(), catalog.Mermaid(c, nil))
			return
		}

		backend, _, _ := loadBackend(cmd.Context(), cmd, true)
		defer backend.Close()
		if err := runGraph(cmd.OutOrStdout(), backend.Agent.Catalog(), func() (*domain.Session, error) {
			return backend.Agent.Session(cmd.Context(), sessionID)
		}); err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the progress of this session")
}

// catalogArg prefers the positional argument over --catalog.
func catalogArg(cmd *cobra.Command, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	path, _ := cmd.Flags().GetString("catalog")
	if path == "" {
		path = strings.TrimSpace(os.Getenv("CATALOG_PATH"))
	}
	return path
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return quoteagent.DefaultCatalog()
	}
	return catalog.Load(path)
}

func runValidate(w io.Writer, path string) error {
	c, err := loadCatalog(path)
	if err != nil {
		return err
	}
	for _, id := range catalog.Unreachable(c) {
		fmt.Fprintf(w, "warning: node '%s' is unreachable from '%s'\n", id, c.Start)
	}
	fmt.Fprintf(w, "Catalog is valid (%d nodes)\n", c.Len())
	return nil
}

func runGraph(w io.Writer, c *catalog.Catalog, load func() (*domain.Session, error)) error {
	s, err := load()
	if err != nil {
		return err
	}
	fmt.Fprint(w, catalog.Mermaid(c, catalog.OverlayFor(c, s)))
	return nil
}
