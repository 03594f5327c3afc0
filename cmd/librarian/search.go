package main

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"librarian/internal/search"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search bookmarked pages",
	Long: `Runs a hybrid (keyword and semantic) query against the search index and
prints matching bookmarks with a short excerpt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	a, err := newApp(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	resp, err := a.searcher.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd.OutOrStdout(), resp)
	}
	return outputSearchText(cmd.OutOrStdout(), resp)
}

func outputSearchJSON(w io.Writer, resp *search.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}

func outputSearchText(w io.Writer, resp *search.Response) error {
	if len(resp.Result) == 0 {
		_, err := fmt.Fprintf(w, "No results found (%d chunks indexed).\n", resp.DBCount)
		return err
	}

	var b strings.Builder
	for i, r := range resp.Result {
		// Format: [N] Title / URL / excerpt
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, r.Document.Title)
		fmt.Fprintf(&b, "      %s\n", r.Document.URL)
		if flavor := html.UnescapeString(search.FlavorText(r.Document.FlavorHTML)); flavor != "" {
			fmt.Fprintf(&b, "      %s\n", flavor)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d results (%d chunks indexed)\n", len(resp.Result), resp.DBCount)
	_, err := io.WriteString(w, b.String())
	return err
}
