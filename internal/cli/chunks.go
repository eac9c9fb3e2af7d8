package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docsqa/internal/adapter/analyzer"
	"docsqa/internal/adapter/chunker"
	"docsqa/internal/adapter/fs"
	"docsqa/internal/port"
)

var (
	chunksJSON      bool
	chunksSentences bool
)

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "Show how the corpus is split into chunks",
	Long: `Read the corpus and print the chunks that would be embedded, without
calling any provider. Useful for tuning index.max_chunk_size.

Examples:
  docsqa chunks
  docsqa chunks --json
  docsqa chunks --sentences`,
	Args: cobra.NoArgs,
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output as JSON")
	chunksCmd.Flags().BoolVar(&chunksSentences, "sentences", false, "list sentences instead of packed chunks")
}

type fileChunks struct {
	Path   string   `json:"path"`
	Chunks []string `json:"chunks"`
}

func runChunks(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	corpusDir := cfg.CorpusDir(GetRootDir())

	files, err := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes).Walk(corpusDir)
	if err != nil {
		return fmt.Errorf("failed to walk corpus: %w", err)
	}

	segmenter := chunker.NewSentenceChunker(cfg.Index.MaxChunkSize, cfg.Index.SanitizeInput)
	out := segmentFiles(files, fs.NewReader(), segmenter, chunksSentences)

	if chunksJSON {
		output, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(output))
		return nil
	}

	total := 0
	for _, fc := range out {
		fmt.Printf("== %s (%d chunks)\n", fc.Path, len(fc.Chunks))
		for i, c := range fc.Chunks {
			fmt.Printf("  [%d] (%d chars) %s\n", i, analyzer.Length(c), c)
		}
		total += len(fc.Chunks)
	}
	if chunksSentences {
		fmt.Printf("\n%d sentences from %d files\n", total, len(out))
		return nil
	}
	fmt.Printf("\n%d chunks from %d files (max_chunk_size=%d)\n", total, len(out), cfg.Index.MaxChunkSize)
	return nil
}

// segmentFiles reads each file and splits it into chunks, or into plain
// sentences when sentences is set. Unreadable files are logged and skipped.
func segmentFiles(files []port.FileInfo, reader port.DocumentReader, segmenter port.Segmenter, sentences bool) []fileChunks {
	var out []fileChunks
	for _, f := range files {
		doc, err := reader.ReadDocument(f.Path)
		if err != nil {
			logger.Warn().Err(err).Str("source", f.Path).Msg("skipping unreadable file")
			continue
		}
		var parts []string
		if sentences {
			parts = segmenter.Sentences(doc.Text)
		} else {
			parts = segmenter.Chunks(doc.Text)
		}
		out = append(out, fileChunks{Path: f.Path, Chunks: parts})
	}
	return out
}
