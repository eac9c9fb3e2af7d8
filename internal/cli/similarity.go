package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docsqa/internal/adapter/embedding"
	"docsqa/internal/adapter/retriever"
	"docsqa/internal/domain"
)

var similarityCmd = &cobra.Command{
	Use:   "similarity [text] [text]...",
	Short: "Compare the embedding of one text with others",
	Long: `Embed every text and print the dot product of the first one with each
of the others. Without arguments, a small built-in set of sentences is used.

Examples:
  docsqa similarity
  docsqa similarity "John bought a new car" "Sally drove to the store"`,
	RunE: runSimilarity,
}

var demoSentences = []string{
	"John bought a new car",
	"Sally drove to the store",
	"The dog saw a cat",
}

func init() {
	rootCmd.AddCommand(similarityCmd)
}

func runSimilarity(cmd *cobra.Command, args []string) error {
	texts := args
	if len(texts) == 0 {
		texts = demoSentences
	}
	if len(texts) < 2 {
		return fmt.Errorf("need at least two texts to compare")
	}

	cfg := GetConfig()
	apiKey, err := cfg.APIKey()
	if err != nil {
		return err
	}
	embedder, err := embedding.New(cfg.Embedding, apiKey)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	ctx := cmd.Context()
	base, err := embedder.Embed(ctx, texts[0])
	if err == nil && len(base) == 0 {
		err = domain.ErrEmptyEmbedding
	}
	if err != nil {
		return fmt.Errorf("failed to embed %q: %w", texts[0], err)
	}

	fmt.Printf("Model: %s (%d dimensions)\n", embedder.ModelName(), len(base))
	for _, other := range texts[1:] {
		vec, err := embedder.Embed(ctx, other)
		if err != nil || len(vec) == 0 {
			logger.Warn().Err(err).Str("text", other).Msg("embedding failed")
			continue
		}
		score, ok := retriever.Dot(base, vec)
		if !ok {
			fmt.Printf("%q · %q = n/a (dimension mismatch %d vs %d)\n", texts[0], other, len(base), len(vec))
			continue
		}
		fmt.Printf("%q · %q = %.4f\n", texts[0], other, score)
	}
	return nil
}
