// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doctex/internal/catalog"
	"github.com/pdiddy/doctex/internal/document"
	"github.com/pdiddy/doctex/internal/render"
	"github.com/pdiddy/doctex/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the entry catalog (store, lookup, export, render)",
	Long: `Catalog manages a local SQLite database of documented entries. Use
subcommands to index a document, look entries up, export them, or render
the catalog back to LaTeX.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store",
	Short: "Index the entries of a document into the catalog",
	Long: `Store reads the input document and brings the catalog in line with it.
New entries are indexed, changed entries replaced, unchanged entries
skipped, and entries no longer in the document removed.`,
	Args: cobra.NoArgs,
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	doc, err := document.Load(viper.GetString("render.input"))
	if err != nil {
		return err
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	_, err = store.Ingest(context.Background(), doc, os.Stdout)
	return err
}

// --- lookup subcommand ---

var catalogLookupCmd = &cobra.Command{
	Use:   "lookup [query]",
	Short: "Find catalog entries by substring or key",
	Long: `Lookup matches the query case-insensitively against entry keys, names,
signatures, descriptions, and notes. Results keep document order.`,
	RunE: runCatalogLookup,
}

func runCatalogLookup(cmd *cobra.Command, args []string) error {
	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide a search query or --key")
	}

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Lookup(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	tex, _ := cmd.Flags().GetBool("tex")
	switch {
	case jsonOutput:
		return formatLookupJSON(results)
	case tex:
		r := render.New(render.Options{Escape: viper.GetBool("render.escape")})
		for _, res := range results {
			if _, err := r.RenderEntry(os.Stdout, res.Key, res.Entry); err != nil {
				return err
			}
		}
		return nil
	default:
		formatLookupTable(results)
		return nil
	}
}

func formatLookupJSON(results []catalog.Result) error {
	entries := make([]catalog.ExportEntry, len(results))
	for i, r := range results {
		entries[i] = catalog.ToExport(r.Key, r.Entry)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func formatLookupTable(results []catalog.Result) {
	if len(results) == 0 {
		fmt.Println("No results found.")
		return
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-20s  %-30s  %s\n", "Pos", "Key", "Signature", "Description")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, r := range results {
		fmt.Fprintf(os.Stdout, "%-4d  %-20s  %-30s  %s\n",
			r.Position, truncate(r.Key, 20), truncate(deref(r.Entry.Signature), 30),
			truncate(deref(r.Entry.Description), 40))
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(results))
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export catalog entries to YAML or JSON",
	Long: `Export writes the catalog (or the subset matching --query and --key) to
a YAML or JSON file.`,
	Args: cobra.NoArgs,
	RunE: runCatalogExport,
}

func runCatalogExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")

	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	opts := queryOptsFromFlags(cmd, args)

	switch format {
	case "yaml", "":
		if out == "" {
			out = "export.yaml"
		}
		if err := store.ExportYAML(context.Background(), opts, out); err != nil {
			return err
		}
	case "json":
		if out == "" {
			out = "export.json"
		}
		if err := store.ExportJSON(context.Background(), opts, out); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}

	fmt.Printf("Exported to %s\n", out)
	return nil
}

// --- render subcommand ---

var catalogRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the catalog contents into a LaTeX fragment",
	Args:  cobra.NoArgs,
	RunE:  runCatalogRender,
}

func runCatalogRender(cmd *cobra.Command, args []string) error {
	store, err := catalog.NewStore(catalogConfig())
	if err != nil {
		return err
	}
	defer store.Close()

	doc, err := store.Document(context.Background())
	if err != nil {
		return err
	}

	cfg := renderConfig()
	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating output: %w", err)
	}
	defer f.Close()

	r := render.New(render.Options{Escape: cfg.Escape, Standalone: cfg.Standalone})
	if _, err := r.Render(f, doc); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	fmt.Fprintf(progress(), "rendered %d catalog entries to %s\n", doc.Len(), cfg.Output)
	return nil
}

// --- shared helpers ---

func catalogConfig() types.CatalogConfig {
	return types.CatalogConfig{
		DBPath:     viper.GetString("catalog.db"),
		MaxResults: viper.GetInt("catalog.max_results"),
	}
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	key, _ := cmd.Flags().GetString("key")
	limit, _ := cmd.Flags().GetInt("limit")

	return catalog.QueryOptions{
		Query:      queryText,
		Key:        key,
		MaxResults: limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("db", catalog.DefaultDBPath, "catalog database file")
	catalogCmd.PersistentFlags().Int("max-results", 20, "default maximum number of lookup results")
	viper.BindPFlag("catalog.db", catalogCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("catalog.max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	// Lookup flags.
	catalogLookupCmd.Flags().String("query", "", "substring to search for")
	catalogLookupCmd.Flags().String("key", "", "exact entry key")
	catalogLookupCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	catalogLookupCmd.Flags().Bool("json", false, "output results as JSON")
	catalogLookupCmd.Flags().Bool("tex", false, "output results as LaTeX entry blocks")

	// Export flags.
	catalogExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	catalogExportCmd.Flags().String("out", "", "export file (default export.yaml or export.json)")
	catalogExportCmd.Flags().String("query", "", "substring filter for partial export")
	catalogExportCmd.Flags().String("key", "", "exact key filter for partial export")
	catalogExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all)")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogLookupCmd)
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogRenderCmd)

	rootCmd.AddCommand(catalogCmd)
}
