package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"docsqa/internal/domain"
)

var (
	askQuestions []string
	askJSON      bool
	askExplain   bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]...",
	Short: "Answer one or more questions from the corpus",
	Long: `Build an index of the corpus, then answer each question in order.
Each question is answered independently. The index lives only for the
duration of the command.

Examples:
  docsqa ask "What is the history of chemistry?"
  docsqa ask -q "What is the definition of sports?" -q "What is microeconomics?"
  docsqa ask --explain --json "What is microeconomics?"`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringArrayVarP(&askQuestions, "question", "q", nil, "question to answer (repeatable)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "show the score of every chunk")
}

type askResult struct {
	domain.Answer
	Scores []domain.Match `json:"scores,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	questions := append(append([]string{}, askQuestions...), args...)
	if len(questions) == 0 {
		return fmt.Errorf("no question given")
	}

	cfg := GetConfig()
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if _, err := buildIndex(ctx, engine, cfg.CorpusDir(GetRootDir()), os.Stderr); err != nil {
		return err
	}

	results := make([]askResult, 0, len(questions))
	for _, q := range questions {
		var res askResult
		if askExplain {
			res.Answer, res.Scores, err = engine.Explain(ctx, q)
		} else {
			res.Answer, err = engine.Query(ctx, q)
		}
		if err != nil {
			return fmt.Errorf("query failed: %w", err)
		}
		results = append(results, res)

		if !askJSON {
			printAnswer(res)
		}
	}

	if askJSON {
		output, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
	}

	return nil
}

func printAnswer(res askResult) {
	fmt.Printf("Question: %s\n", res.Question)
	if askExplain {
		fmt.Printf("Scores (%d chunks, %d above threshold):\n", len(res.Scores), len(res.Matches))
		for _, s := range res.Scores {
			fmt.Printf("  [%d] %.4f  %s\n", s.Position, s.Score, preview(s.Text, 70))
		}
	}
	answer := res.Text
	if answer == "" {
		answer = "(no answer)"
	}
	fmt.Printf("Answer: %s\n\n", answer)
}

func preview(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
