package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"librarian/internal/indexer"
)

var indexNoProgress bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Sync the bookmark file into the search index once",
	Long: `Reads every bookmark, extracts page text and uploads chunks the index
does not have yet. Bookmarks already indexed are skipped.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&indexNoProgress, "no-progress", false, "disable the progress bar")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progress indexer.ProgressReporter
	if !indexNoProgress && indexer.DefaultProgressEnabled() {
		progress = indexer.NewBarProgress(cmd.ErrOrStderr())
	}

	a, err := newApp(ctx, cfg, progress)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	summary, err := a.pipeline.SyncAll(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Synced %d bookmarks in %s: %d indexed, %d skipped, %d failed, %d chunks uploaded\n",
		summary.Total, summary.Duration.Round(time.Millisecond),
		summary.Indexed, summary.Skipped, summary.Failed, summary.ChunksUploaded)
	if summary.ChunkFailures > 0 {
		cmd.Printf("%d chunk uploads failed\n", summary.ChunkFailures)
	}
	if summary.Duplicates > 0 {
		cmd.Printf("%d bookmarks repeat a URL listed elsewhere\n", summary.Duplicates)
	}
	return nil
}
