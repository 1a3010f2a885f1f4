package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/dreamer-be/config"
	"github.com/tieubaoca/dreamer-be/database"
	"github.com/tieubaoca/dreamer-be/service"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dreamer-be",
	Short: "Namespace-isolated knowledge graph with background dream-cycle consolidation",
	Long: `dreamer-be maintains a knowledge graph of triplets and notes partitioned
into namespaces. New knowledge is ingested raw and asynchronously vectorized
("dreamed") by a background consolidation cycle; queries only ever see
dreamed documents and never leak across namespaces.

  dreamer-be serve   Start the MCP server (stdio transport)
  dreamer-be dream   Drain the raw backlog through dream cycles
  dreamer-be seed    Seed a demo knowledge graph`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML; defaults and env vars apply without one)")
}

// buildStore loads the configuration and connects the document store.
func buildStore() (*config.Config, *database.WeaviateStore, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	store, err := database.NewWeaviateStore(cfg.Weaviate)
	if err != nil {
		return nil, nil, err
	}
	return cfg, store, nil
}

// buildEmbedder constructs the configured embedding provider.
func buildEmbedder(ctx context.Context, cfg *config.Config) (service.Embedder, error) {
	return service.NewEmbedder(ctx, cfg.Embedding)
}
