package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/dreamer-be/service"
)

type seedTriplet struct {
	head, relation, tail string
}

type seedNote struct {
	topic, text string
}

// A small enterprise knowledge graph across four namespaces: two projects,
// shared CI/monitoring infrastructure, and company-wide facts. Jenkins,
// Grafana and Vault serve both projects, which is what cross_reference
// surfaces.
var seedTriplets = map[string][]seedTriplet{
	"Project_Alpha": {
		{"Alice Chen", "LEADS", "Project_Alpha"},
		{"Alice Chen", "ROLE", "Tech Lead"},
		{"Bob Kumar", "WORKS_ON", "Project_Alpha"},
		{"Project_Alpha", "HOSTED_ON", "AWS"},
		{"Project_Alpha", "USES_DB", "PostgreSQL RDS"},
		{"Project_Alpha", "USES_CACHE", "ElastiCache Redis"},
		{"Project_Alpha", "DEPENDS_ON", "Jenkins"},
		{"Project_Alpha", "DEPENDS_ON", "Grafana"},
		{"Project_Alpha", "DEPENDS_ON", "Vault"},
	},
	"Project_Beta": {
		{"David Park", "LEADS", "Project_Beta"},
		{"Eve Martinez", "WORKS_ON", "Project_Beta"},
		{"Project_Beta", "HOSTED_ON", "Google Cloud Platform"},
		{"Project_Beta", "USES_DB", "Cloud SQL MySQL"},
		{"Project_Beta", "COMPLIANCE", "HIPAA"},
		{"Project_Beta", "DEPENDS_ON", "Jenkins"},
		{"Project_Beta", "DEPENDS_ON", "Grafana"},
		{"Project_Beta", "DEPENDS_ON", "Vault"},
	},
	"Shared_Infra": {
		{"Jenkins", "SERVES", "Project_Alpha"},
		{"Jenkins", "SERVES", "Project_Beta"},
		{"Grafana", "MONITORS", "Project_Alpha"},
		{"Grafana", "MONITORS", "Project_Beta"},
		{"Vault", "MANAGES_SECRETS_FOR", "Project_Alpha"},
		{"Vault", "MANAGES_SECRETS_FOR", "Project_Beta"},
	},
	"Global": {
		{"Company VPN", "PROTOCOL", "WireGuard"},
		{"Alice Chen", "REPORTS_TO", "VP Engineering"},
		{"David Park", "REPORTS_TO", "VP Engineering"},
	},
}

var seedNotes = map[string][]seedNote{
	"Project_Alpha": {
		{"Incident Report", "Production outage on Feb 10 lasting 45 minutes. Root cause: Redis connection pool exhaustion under peak load. Fix: increased max connections from 50 to 200."},
	},
	"Project_Beta": {
		{"ML Pipeline", "Model retraining pipeline runs every Sunday at 2am UTC. Current model accuracy: 94.2% on validation set."},
	},
	"Shared_Infra": {
		{"CI/CD Policy", "All deployments require two approvals. Staging must pass all integration tests before production deploy. Rollback SLA: 5 minutes."},
	},
}

// seedCmd populates the store with a demo knowledge graph.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed a demo knowledge graph across four namespaces",
	Run: func(cmd *cobra.Command, args []string) {
		reset, _ := cmd.Flags().GetBool("reset")
		dream, _ := cmd.Flags().GetBool("dream")

		ctx := context.Background()
		cfg, store, err := buildStore()
		if err != nil {
			log.Fatalf("Failed to connect to document store: %v", err)
		}

		if reset {
			if err := store.Reset(ctx); err != nil {
				log.Fatalf("Failed to reset index: %v", err)
			}
			log.Println("Index reset.")
		}

		ingest := service.NewIngestService(store)
		total := 0
		for namespace, triplets := range seedTriplets {
			for _, t := range triplets {
				if _, err := ingest.IngestTriplet(ctx, t.head, t.relation, t.tail, namespace, ""); err != nil {
					log.Fatalf("Failed to seed triplet %q: %v", t.head, err)
				}
				total++
			}
		}
		for namespace, notes := range seedNotes {
			for _, n := range notes {
				if _, err := ingest.IngestNote(ctx, n.topic, n.text, namespace); err != nil {
					log.Fatalf("Failed to seed note %q: %v", n.topic, err)
				}
				total++
			}
		}
		log.Printf("Seeded %d documents across %d namespaces.", total, len(seedTriplets))

		if !dream {
			log.Println("Run 'dreamer-be dream' to consolidate the backlog.")
			return
		}

		embedder, err := buildEmbedder(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create embedding provider: %v", err)
		}
		dreamer := service.NewDreamerService(store, embedder, cfg.Dreamer)
		for {
			report, err := dreamer.DreamCycle(ctx)
			if err != nil {
				log.Fatalf("Dream cycle failed: %v", err)
			}
			if report.Attempted == 0 || report.Succeeded == 0 {
				break
			}
			log.Printf("Consolidated %d document(s), %d failed", report.Succeeded, report.Failed)
		}
		log.Println("Knowledge graph ready.")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().Bool("reset", false, "Delete and recreate the index before seeding")
	seedCmd.Flags().Bool("dream", false, "Run dream cycles after seeding")
}
