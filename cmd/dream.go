package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/dreamer-be/service"
)

// dreamCmd drains the raw backlog. Each cycle is one bounded batch; the
// command is the scheduler that re-invokes the pipeline while documents
// remain and progress is being made.
var dreamCmd = &cobra.Command{
	Use:   "dream",
	Short: "Run dream cycles until the raw backlog is drained",
	Run: func(cmd *cobra.Command, args []string) {
		maxCycles, _ := cmd.Flags().GetInt("max-cycles")

		ctx := context.Background()
		cfg, store, err := buildStore()
		if err != nil {
			log.Fatalf("Failed to connect to document store: %v", err)
		}
		embedder, err := buildEmbedder(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create embedding provider: %v", err)
		}

		dreamer := service.NewDreamerService(store, embedder, cfg.Dreamer)

		for cycle := 1; maxCycles <= 0 || cycle <= maxCycles; cycle++ {
			report, err := dreamer.DreamCycle(ctx)
			if err != nil {
				log.Fatalf("Dream cycle %d failed: %v", cycle, err)
			}
			if report.Attempted == 0 {
				log.Println("No raw documents to process.")
				return
			}
			log.Printf("Cycle %d: attempted %d, succeeded %d, failed %d",
				cycle, report.Attempted, report.Succeeded, report.Failed)

			if report.Succeeded == 0 {
				// Every document in the batch failed to embed; rerunning
				// immediately would hit the same failures.
				log.Printf("No progress this cycle; %d document(s) left raw for a later run", report.Failed)
				return
			}

			remaining, err := dreamer.Backlog(ctx)
			if err != nil {
				log.Fatalf("Failed to count raw backlog: %v", err)
			}
			if remaining == 0 {
				log.Println("Backlog drained.")
				return
			}
			log.Printf("%d raw document(s) remaining...", remaining)
		}
	},
}

func init() {
	rootCmd.AddCommand(dreamCmd)
	dreamCmd.Flags().Int("max-cycles", 0, "Stop after this many cycles (0 = run until drained)")
}
