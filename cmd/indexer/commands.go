package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"discharge-care-be/internal/bootstrap"
	"discharge-care-be/internal/dto"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	topK  int
	reset bool
)

var indexCmd = &cobra.Command{
	Use:   "index [dir]",
	Short: "Index reference documents from a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Show the nearest indexed chunks for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index size and backend",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var webSearchCmd = &cobra.Command{
	Use:   "websearch <query>",
	Short: "Query the web search fallback chain",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWebSearch,
}

func init() {
	indexCmd.Flags().BoolVar(&reset, "reset", false, "Drop every indexed chunk before indexing")
	searchCmd.Flags().IntVarP(&topK, "top", "k", 0, "Number of chunks to show (default TOP_K)")
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	dir := e.cfg.Rag.KnowledgeDir
	if len(args) == 1 {
		dir = args[0]
	}

	if reset {
		if err := e.index.Reset(ctx); err != nil {
			return fmt.Errorf("reset index: %w", err)
		}
		color.Yellow("Index cleared")
	}

	color.Cyan("Indexing %s (%s backend)\n", dir, e.cfg.Rag.IndexBackend)
	res, err := e.indexing.IndexDirectory(ctx, dir)
	if err != nil {
		return err
	}

	printDirectoryResult(res)
	if !e.persistent() {
		color.Yellow("\nMemory backend: nothing was persisted. Set INDEX_BACKEND=pgvector to keep the index.")
	}
	return nil
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := e.warm(ctx); err != nil {
		return err
	}

	k := topK
	if k <= 0 {
		k = e.cfg.Rag.TopK
	}
	query := strings.Join(args, " ")

	hits, err := e.index.Search(ctx, query, k)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if len(hits) == 0 {
		color.Yellow("No chunks indexed")
		return nil
	}

	color.Cyan("Top %d chunks for %q\n", len(hits), query)
	for i, h := range hits {
		fmt.Println()
		color.Green("%d. %s #%d  distance=%.4f", i+1, h.SourceID, h.ChunkIndex, h.Distance)
		fmt.Println(preview(h.Text, 300))
	}
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	if _, err := e.warm(ctx); err != nil {
		return err
	}

	count, err := e.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("count chunks: %w", err)
	}

	fmt.Printf("Backend:        %s\n", e.cfg.Rag.IndexBackend)
	fmt.Printf("Embeddings:     %s\n", e.cfg.Ai.EmbeddingProvider)
	fmt.Printf("Knowledge dir:  %s\n", e.cfg.Rag.KnowledgeDir)
	fmt.Printf("Chunk size:     %d (overlap %d)\n", e.cfg.Rag.ChunkSize, e.cfg.Rag.ChunkOverlap)
	color.Green("Indexed chunks: %d", count)
	return nil
}

func runWebSearch(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	query := strings.Join(args, " ")
	res := bootstrap.NewWebSearch(e.cfg, nil, e.log).Search(ctx, query)

	color.Cyan("Provider: %s\n", res.ProviderUsed)
	if len(res.Results) == 0 {
		color.Yellow("No results")
		return nil
	}
	for i, r := range res.Results {
		fmt.Println()
		color.Green("%d. %s", i+1, r.Title)
		if r.URL != "" {
			fmt.Println(r.URL)
		}
		fmt.Println(preview(r.Snippet, 300))
	}
	return nil
}

func printDirectoryResult(res *dto.IndexDirectoryResponse) {
	for _, d := range res.Documents {
		if d.Skipped {
			fmt.Printf("  = %s (unchanged)\n", d.SourceId)
			continue
		}
		fmt.Printf("  + %s (%d chunks)\n", d.SourceId, d.Chunks)
	}

	fmt.Println()
	color.Green("Indexed: %d", res.Indexed)
	fmt.Printf("Skipped: %d\n", res.Skipped)
	if res.Failed > 0 {
		color.Red("Failed:  %d (see log with -v)", res.Failed)
	}
}

func preview(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit]) + "..."
}
