package cmd

import (
	"context"
	"log"
	"os"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/dreamer-be/handler"
	"github.com/tieubaoca/dreamer-be/service"
)

// serveCmd starts the MCP server on stdio.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the knowledge graph MCP server",
	Long:  `Starts an MCP server (stdio transport) exposing the five read tools and two write workflows.`,
	Run: func(cmd *cobra.Command, args []string) {
		// stdout belongs to the MCP transport.
		log.SetOutput(os.Stderr)

		cfg, store, err := buildStore()
		if err != nil {
			log.Fatalf("Failed to connect to document store: %v", err)
		}

		embedder, err := buildEmbedder(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to create embedding provider: %v", err)
		}

		ingestService := service.NewIngestService(store)
		queryService := service.NewQueryService(store, embedder)
		workflowService := service.NewWorkflowService(ingestService, queryService)

		s := handler.NewServer(queryService, workflowService)

		log.Println("Starting MCP server on stdio...")
		if err := mcpserver.ServeStdio(s); err != nil {
			log.Fatal("Server error:", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
