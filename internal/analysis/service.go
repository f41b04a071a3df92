package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/modeldocs/portal/internal/gemini"
	"github.com/modeldocs/portal/internal/ollama"
	"github.com/modeldocs/portal/internal/openai"
	"github.com/modeldocs/portal/internal/providers"
)

// Service runs LLM document analysis for the upload pre-fill step.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// AnalyzeDocument asks the configured provider to extract catalog metadata
// from document text. The returned string is the raw model output; the
// extractor is responsible for making sense of it.
func (s *Service) AnalyzeDocument(ctx context.Context, text, provider, model string) (string, error) {
	if provider == "" {
		provider = os.Getenv("ANALYSIS_PROVIDER")
		if provider == "" {
			provider = "ollama"
		}
	}
	if model == "" {
		model = s.defaultModel(provider)
	}

	p, err := providerFor(provider)
	if err != nil {
		return "", err
	}

	prompt := buildMetadataPrompt() + "\n\nDocument text:\n\n" + text
	raw, err := p.ExtractText(ctx, providers.Config{
		Model:       model,
		Temperature: 0.1,
		Prompt:      prompt,
	})
	if err != nil {
		return "", fmt.Errorf("analysis with %s failed: %w", provider, err)
	}

	slog.Info("Document analyzed", "provider", provider, "model", model, "length", len(raw))
	return raw, nil
}

func providerFor(name string) (providers.Provider, error) {
	switch name {
	case "ollama":
		return ollama.New(), nil
	case "openai":
		return openai.New(), nil
	case "gemini":
		return gemini.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

func (s *Service) defaultModel(provider string) string {
	switch provider {
	case "openai":
		if model := os.Getenv("OPENAI_MODEL"); model != "" {
			return model
		}
		return "gpt-4o"
	case "gemini":
		if model := os.Getenv("GEMINI_MODEL"); model != "" {
			return model
		}
		return "gemini-1.5-flash"
	case "ollama":
		if model := os.Getenv("OLLAMA_MODEL"); model != "" {
			return model
		}
		return "mistral-small3.2:24b"
	default:
		return ""
	}
}

// buildMetadataPrompt creates the extraction prompt for ML-model
// documentation (papers and notebooks).
func buildMetadataPrompt() string {
	return `You are an expert curator of machine-learning documentation. Extract structured metadata from the text of an uploaded document (a research article or a notebook description).

INSTRUCTIONS:
1. Carefully analyze ALL information in the document text
2. Extract the following fields:
   - title: Full title of the work (include subtitle if present)
   - authors: Author name(s)
   - year: Year of publication (number)
   - publisher: Publisher or venue name
   - abstract_full: The full abstract, if present
   - abstract_short: A one-to-two sentence summary
   - url: Canonical URL of the work, if stated
   - keywords: Up to 4 topical keywords (array of strings)

3. For missing fields, use empty string "" or empty array [] for keywords
4. Be precise and extract exactly what is shown in the text
5. Do not invent or infer information that isn't present

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "title": "...",
  "authors": "...",
  "year": 2024,
  "publisher": "...",
  "abstract_full": "...",
  "abstract_short": "...",
  "url": "...",
  "keywords": ["..."]
}

Be thorough and accurate. Extract only what is clearly present in the document text.`
}
