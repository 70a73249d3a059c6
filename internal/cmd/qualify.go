package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Quinntas/max/internal/config"
	"github.com/Quinntas/max/internal/dealership"
	"github.com/Quinntas/max/internal/lead"
	"github.com/Quinntas/max/internal/pipeline"
)

var (
	qualifyContext    string
	qualifyChannel    string
	qualifyDealership string
	qualifyNoConsent  bool
)

var qualifyCmd = &cobra.Command{
	Use:   "qualify <message>",
	Short: "Run one message through the qualification pipeline",
	Long: `Runs a single customer message through the full pipeline and prints
the result as JSON. Useful for trying persona and guardrail changes
without wiring a channel.`,
	Example: `  max qualify "Looking for a 2023 Camry, budget around 30k"
  max qualify --dealership sunrise-toyota --channel email "Do you have any F-150s?"
  max qualify "I want to speak to a manager" | jq .escalation`,
	Args: cobra.ExactArgs(1),
	RunE: runQualify,
}

func init() {
	qualifyCmd.Flags().StringVar(&qualifyContext, "context", "", "prior conversation context")
	qualifyCmd.Flags().StringVar(&qualifyChannel, "channel", "SMS", "channel to format for (SMS, EMAIL, VOICE)")
	qualifyCmd.Flags().StringVar(&qualifyDealership, "dealership", "", "dealership pid from the registry")
	qualifyCmd.Flags().BoolVar(&qualifyNoConsent, "no-consent", false, "treat the contact as lacking consent")
	rootCmd.AddCommand(qualifyCmd)
}

func runQualify(cmd *cobra.Command, args []string) error {
	ctx, span := tracer.Start(cmd.Context(), "cmd.qualify")
	defer span.End()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	var d *lead.Dealership
	if qualifyDealership != "" {
		registry, err := dealership.Load(cfg.DealershipFile)
		if err != nil {
			return err
		}
		d, err = registry.ByPID(qualifyDealership)
		if err != nil {
			return fmt.Errorf("dealership %q: %w", qualifyDealership, err)
		}
	}

	inv, cleanup, err := buildInventory(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var pipeOpts []pipeline.Option
	if cfg.Model != "" {
		pipeOpts = append(pipeOpts, pipeline.WithModel(cfg.Model))
	}
	pipe := pipeline.New(provider, inv, pipeOpts...)

	result, err := pipe.Run(ctx, lead.PipelineContext{
		MessageContent:      args[0],
		ConversationContext: qualifyContext,
		Channel:             lead.Channel(qualifyChannel),
		Dealership:          d,
		HasConsent:          !qualifyNoConsent,
	})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
