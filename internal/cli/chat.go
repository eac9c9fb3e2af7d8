package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"docsqa/internal/logging"
	"docsqa/internal/tui"
)

var chatLogFile string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Build an index of the corpus and open an interactive session.
Each question is answered on its own; earlier questions are not sent
to the model.

Examples:
  docsqa chat
  docsqa chat --log-file docsqa.log`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringVar(&chatLogFile, "log-file", "", "write logs here while the session is open (default: discard)")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	// the terminal belongs to the UI, so logs go to a file or nowhere
	sessionLogger := zerolog.Nop()
	if chatLogFile != "" {
		f, err := os.OpenFile(chatLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logCfg := cfg.Logging
		logCfg.Format = "json"
		sessionLogger = logging.New(logCfg, f)
	}

	engine, err := newEngine(cfg, sessionLogger)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	result, err := buildIndex(ctx, engine, cfg.CorpusDir(GetRootDir()), os.Stderr)
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%d chunks from %d files · embeddings: %s · answers: %s",
		result.ChunksCreated, result.FilesIndexed, cfg.Embedding.Model, cfg.Answer.Model)

	p := tea.NewProgram(tui.New(ctx, engine, summary), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat session failed: %w", err)
	}
	return nil
}
