// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/storyboard-engine/internal/abbrev"
	"github.com/pdiddy/storyboard-engine/internal/deck"
	"github.com/pdiddy/storyboard-engine/pkg/types"
)

var abbrevCmd = &cobra.Command{
	Use:   "abbrev",
	Short: "Manage and resolve clinical abbreviations",
	Long: `Abbrev resolves abbreviation tokens found in decks and manages the
persistent abbreviation store. Use subcommands to resolve a deck's
abbreviations, add custom definitions, import a CSV glossary, or show
store statistics.`,
}

// --- resolve subcommand ---

var abbrevResolveCmd = &cobra.Command{
	Use:   "resolve <deck>",
	Short: "Extract and resolve a deck's abbreviations",
	Long: `Resolve scans the deck for explicit Term (ABBR) style definitions and
bare abbreviation-shaped tokens, then resolves undefined tokens through
the lookup chain: known definitions, auxiliary dictionary, clinical
notation table, persistent store, and the remote service.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbbrevResolve,
}

func runAbbrevResolve(cmd *cobra.Command, args []string) error {
	d, err := deck.Load(args[0])
	if err != nil {
		return err
	}

	resolver, closeSources, err := resolverFromFlags(cmd)
	if err != nil {
		return err
	}
	defer closeSources()

	entries, warnings, err := resolver.Resolve(context.Background(), d, os.Stderr)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return err
		}
	} else {
		data, err := yaml.Marshal(entries)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
	}

	for _, token := range warnings {
		fmt.Fprintf(os.Stderr, "warning: no definition found for %s\n", token)
	}
	return nil
}

// --- add subcommand ---

var abbrevAddCmd = &cobra.Command{
	Use:   "add <abbreviation> <definition>",
	Short: "Add a custom definition to the persistent store",
	Args:  cobra.ExactArgs(2),
	RunE:  runAbbrevAdd,
}

func runAbbrevAdd(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	category, _ := cmd.Flags().GetString("category")
	if err := store.Add(context.Background(), args[0], args[1], category); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "added %s\n", args[0])
	return nil
}

// --- import subcommand ---

var abbrevImportCmd = &cobra.Command{
	Use:   "import <glossary.csv>",
	Short: "Import a CSV glossary into the persistent store",
	Long: `Import reads a CSV file with a header naming abbreviation, definition,
and optionally category columns. Rows that fail are reported and
skipped; the rest are merged into the store.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbbrevImport,
}

func runAbbrevImport(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	imported, err := store.ImportCSV(context.Background(), args[0], os.Stderr)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "imported %d entries\n", imported)
	return nil
}

// --- stats subcommand ---

var abbrevStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show persistent store statistics",
	RunE:  runAbbrevStats,
}

func runAbbrevStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Entries:    %d\n", stats.Total)
	fmt.Fprintf(os.Stdout, "Cache size: %d\n", stats.CacheSize)
	if len(stats.Categories) > 0 {
		fmt.Fprintln(os.Stdout, "Categories:")
		cats := make([]string, 0, len(stats.Categories))
		for c := range stats.Categories {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		for _, c := range cats {
			fmt.Fprintf(os.Stdout, "  %-20s %d\n", c, stats.Categories[c])
		}
	}
	return nil
}

// --- shared wiring ---

// addResolverFlags registers the lookup-chain flags shared by outline
// and abbrev resolve. Empty flag values fall back to the config file at
// run time.
func addResolverFlags(cmd *cobra.Command) {
	cmd.Flags().String("known", "", "known-definitions file (JSON or YAML map)")
	cmd.Flags().String("aux", "", "auxiliary dictionary file")
	cmd.Flags().String("db", "", "abbreviation store database path")
	cmd.Flags().Bool("no-store", false, "skip the persistent store lookup")
	cmd.Flags().Bool("no-remote", false, "skip the remote lookup service")
	cmd.Flags().String("api-key", "", "remote lookup API key (default: .secrets/lookup-api-key)")
}

// resolverFromFlags builds the resolver with the store and remote
// sources the flags allow. The returned closer releases the store.
func resolverFromFlags(cmd *cobra.Command) (*abbrev.Resolver, func(), error) {
	known, _ := cmd.Flags().GetString("known")
	aux, _ := cmd.Flags().GetString("aux")
	noStore, _ := cmd.Flags().GetBool("no-store")
	noRemote, _ := cmd.Flags().GetBool("no-remote")
	apiKey, _ := cmd.Flags().GetString("api-key")

	known = defaultString(known, viper.GetString("resolver.known_file"))
	aux = defaultString(aux, viper.GetString("resolver.auxiliary_file"))

	var sources []abbrev.Source
	closeSources := func() {}

	if !noStore {
		store, err := openStore(cmd)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, store)
		closeSources = func() { store.Close() }
	}
	if !noRemote {
		sources = append(sources, abbrev.NewRemoteSource(types.RemoteLookupConfig{
			HTTPConfig: types.HTTPConfig{UserAgent: "storyboard-engine/" + version},
			APIKey:     secretDefault("lookup-api-key", apiKey),
		}))
	}

	resolver, err := abbrev.NewResolver(types.ResolverConfig{
		KnownFile:     known,
		AuxiliaryFile: aux,
	}, sources...)
	if err != nil {
		closeSources()
		return nil, nil, err
	}
	return resolver, closeSources, nil
}

func openStore(cmd *cobra.Command) (*abbrev.Store, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	dbPath = defaultString(dbPath, viper.GetString("resolver.store.db_path"))
	return abbrev.NewStore(types.StoreConfig{DBPath: dbPath})
}

func init() {
	abbrevResolveCmd.Flags().Bool("json", false, "output as JSON")
	addResolverFlags(abbrevResolveCmd)

	abbrevAddCmd.Flags().String("category", "Custom", "category for the new definition")
	abbrevAddCmd.Flags().String("db", "", "abbreviation store database path")

	abbrevImportCmd.Flags().String("db", "", "abbreviation store database path")

	abbrevStatsCmd.Flags().String("db", "", "abbreviation store database path")

	abbrevCmd.AddCommand(abbrevResolveCmd, abbrevAddCmd, abbrevImportCmd, abbrevStatsCmd)
	rootCmd.AddCommand(abbrevCmd)
}
