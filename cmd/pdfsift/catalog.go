package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfsift/internal/catalog"
	"github.com/pdiddy/pdfsift/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the conversion catalog (index, list)",
	Long: `Catalog maintains a local SQLite database of conversion manifests.
Use subcommands to index converted output directories or to list what
has been recorded.`,
}

// --- index subcommand ---

var catalogIndexCmd = &cobra.Command{
	Use:   "index <dir>",
	Short: "Record conversion manifests found under a directory",
	Long: `Index walks a converted output directory for manifest sidecars and
records each document and its artifacts. Re-indexing a manifest replaces
its previous rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogIndex,
}

func runCatalogIndex(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfigFromFlags())
	if err != nil {
		return err
	}
	defer store.Close()

	summary, err := store.Index(context.Background(), args[0], os.Stdout)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d manifest(s) failed indexing", summary.Failed)
	}
	return nil
}

// --- list subcommand ---

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged documents with artifact counts",
	RunE:  runCatalogList,
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfigFromFlags())
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Catalog is empty.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-24s  %-5s  %-9s  %-6s  %-7s  %s\n",
		"Stem", "Pages", "Artifacts", "Tables", "Figures", "Converted")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 78))

	for _, r := range records {
		stem := r.Stem
		if len(stem) > 24 {
			stem = stem[:21] + "..."
		}
		converted := ""
		if !r.ConvertedAt.IsZero() {
			converted = r.ConvertedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(os.Stdout, "%-24s  %-5d  %-9d  %-6d  %-7d  %s\n",
			stem, r.Pages, r.Artifacts, r.Tables, r.Figures, converted)
	}

	fmt.Fprintf(os.Stdout, "\n%d documents\n", len(records))
	return nil
}

// --- shared helpers ---

func catalogConfigFromFlags() types.CatalogConfig {
	return types.CatalogConfig{Path: viper.GetString("catalog.path")}
}

func init() {
	catalogCmd.PersistentFlags().String("db", "pdfsift.db", "catalog database path")
	viper.BindPFlag("catalog.path", catalogCmd.PersistentFlags().Lookup("db"))

	catalogCmd.AddCommand(catalogIndexCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rootCmd.AddCommand(catalogCmd)
}
