package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	backend string
)

var rootCmd = &cobra.Command{
	Use:   "indexer",
	Short: "Manage the reference knowledge index",
	Long: `indexer loads reference documents into the chunk index and lets you
query it and the web search chain from the terminal.

Commands:
  index [dir]         Index every .txt and .md file under dir (default KNOWLEDGE_DIR)
  search <query>      Show the nearest chunks for a query
  stats               Show how many chunks are indexed
  websearch <query>   Run the Tavily -> DuckDuckGo fallback chain

With INDEX_BACKEND=memory the index lives only for the duration of the
command, so search and stats index KNOWLEDGE_DIR first.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log to LOG_FILE_PATH and stdout")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Override INDEX_BACKEND (memory or pgvector)")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(webSearchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
