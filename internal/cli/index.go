package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"docsqa/internal/usecase"
)

// buildIndex runs the corpus ingestion with a progress bar on w and prints
// a summary once the engine is ready.
func buildIndex(ctx context.Context, engine *usecase.Engine, corpusDir string, w io.Writer) (*usecase.IndexResult, error) {
	fmt.Fprintf(w, "Scanning %s...\n", corpusDir)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(processed, total int, source string) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(w),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(w)
				}),
			)
		}

		bar.Set(processed)

		elapsed := time.Since(startTime)
		rate := float64(processed) / elapsed.Seconds()
		if rate > 0 {
			eta := time.Duration(float64(total-processed)/rate) * time.Second
			bar.Describe(fmt.Sprintf("[cyan]Embedding[reset] ETA: %s", formatDuration(eta)))
		}
	}

	start := time.Now()
	result, err := engine.Build(ctx, corpusDir, progressCallback)
	if err != nil {
		return nil, fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(w, "\nIndex built in %s:\n", formatDuration(time.Since(start)))
	fmt.Fprintf(w, "  Files indexed:  %d\n", result.FilesIndexed)
	if result.FilesSkipped > 0 {
		fmt.Fprintf(w, "  Files skipped:  %d (unreadable)\n", result.FilesSkipped)
	}
	fmt.Fprintf(w, "  Chunks:         %d\n", result.ChunksCreated)
	if result.ChunksSkipped > 0 {
		fmt.Fprintf(w, "  Chunks skipped: %d (no embedding)\n", result.ChunksSkipped)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(w, "\nWarnings:\n")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e)
		}
	}
	fmt.Fprintln(w)

	return result, nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
