package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lisboa-tech/olympo-cli/internal/config"
	"github.com/lisboa-tech/olympo-cli/internal/rubric"
	"github.com/lisboa-tech/olympo-cli/pkg/webhook"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "olympo",
	Short: "Client billing metrics and fitness classification",
	Long:  "Fetches billing and opportunity records from the automation webhooks, derives per-client monthly metrics, and classifies client fitness against the weighted rubric.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newWebhookClient builds the n8n client from configuration.
func newWebhookClient() *webhook.Client {
	wc := cfg.Webhooks
	return webhook.NewClient(webhook.Options{
		BillingURL:       wc.BillingURL,
		OpportunitiesURL: wc.OpportunitiesURL,
		AgentURL:         wc.AgentURL,
		AnalysisURL:      wc.AnalysisURL,
		RegisterURL:      wc.RegisterURL,
		Timeout:          time.Duration(wc.TimeoutSecs) * time.Second,
		AgentTimeout:     time.Duration(wc.AgentTimeoutSecs) * time.Second,
		MaxRetries:       wc.MaxRetries,
		RequestsPerSec:   wc.RequestsPerSec,
	})
}

// loadCatalog returns the configured rubric catalog, or the built-in one.
func loadCatalog() (*rubric.Catalog, error) {
	if cfg.Rubric.CatalogPath == "" {
		return rubric.Default(), nil
	}
	return rubric.LoadCatalog(cfg.Rubric.CatalogPath)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
