package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/modeldocs/portal/internal/analysis"
	"github.com/modeldocs/portal/internal/config"
	"github.com/modeldocs/portal/internal/extractor"
	"github.com/modeldocs/portal/internal/models"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	var provider, model, kind string

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Extract catalog metadata from a document",
		Long: `Runs LLM analysis over a local document and prints the extracted
upload draft as YAML. Useful for checking what a contributor would get as
a pre-filled form before wiring up the full upload flow.`,
		Example: `  portal analyze paper.txt
  portal analyze --provider openai --model gpt-4o notes.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if provider == "" {
				provider = cfg.Provider
			}
			if model == "" {
				model = cfg.Model
			}

			text, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read document: %w", err)
			}

			svc := analysis.NewService()
			raw, err := svc.AnalyzeDocument(cmd.Context(), string(text), provider, model)
			if err != nil {
				return err
			}

			payload, err := json.Marshal(map[string]string{"rawAnalysis": raw})
			if err != nil {
				return fmt.Errorf("failed to wrap analysis response: %w", err)
			}

			res := extractor.Extract(payload)
			draft := extractor.PrefillDraft(res, models.ItemKind(kind))
			keywords := extractor.NormalizeKeywords(res.Fields["keywords"])

			out, err := yaml.Marshal(map[string]any{
				"parsed":   res.Parsed,
				"draft":    draft,
				"keywords": keywords,
			})
			if err != nil {
				return fmt.Errorf("failed to render result: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Analysis provider (ollama, openai, gemini)")
	cmd.Flags().StringVar(&model, "model", "", "Model name for the provider")
	cmd.Flags().StringVar(&kind, "kind", string(models.KindArticle), "Item kind (article or notebook)")

	return cmd
}
