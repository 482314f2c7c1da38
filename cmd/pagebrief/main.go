// Package main provides the pagebrief CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/richinex/pagebrief/cli"
	"github.com/richinex/pagebrief/llm"
)

var (
	// Global flags
	provider string
	dbPath   string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "pagebrief",
		Short: "Summarize web pages and answer questions about them with an LLM",
		Long: `Summarize a web page or a text selection with Gemini or Claude,
or ask a question answered only from the page content.

Long pages are summarized in chunks and the chunk summaries are combined.
API keys are read from the settings database, seeded from GEMINI_API_KEY
and ANTHROPIC_API_KEY when set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "LLM provider ("+strings.Join(llm.SupportedProviders(), ", ")+"); defaults to the stored active provider")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Settings database path (default $PAGEBRIEF_DB or ~/.pagebrief/settings.db)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(settingsCmd())
	rootCmd.AddCommand(sessionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func options() cli.Options {
	return cli.Options{
		Provider: provider,
		DBPath:   dbPath,
		Verbose:  verbose,
	}
}

func summarizeCmd() *cobra.Command {
	var opts cli.SummarizeOptions

	cmd := &cobra.Command{
		Use:   "summarize [url]",
		Short: "Summarize a web page or a text selection",
		Long: `Summarize a web page at one of three tiers: short, medium or detailed.

With --selection the given text is summarized instead of the page
("-" reads the selection from stdin); the URL is then optional.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := ""
			if len(args) == 1 {
				url = args[0]
			}
			return cli.Summarize(context.Background(), url, opts, options())
		},
	}

	cmd.Flags().StringVarP(&opts.Tier, "tier", "t", "", "Summary tier: short, medium, detailed (default from settings)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "Re-extract the page instead of using the cache")
	cmd.Flags().StringVar(&opts.Selection, "selection", "", "Summarize this text instead of the page (\"-\" for stdin)")

	return cmd
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask [url] [question]",
		Short: "Answer a question using only the page content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args[1:], " ")
			return cli.Ask(context.Background(), args[0], question, options())
		},
	}
}

func extractCmd() *cobra.Command {
	var showText bool

	cmd := &cobra.Command{
		Use:   "extract [url]",
		Short: "Extract readable text from a page without calling a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Extract(context.Background(), args[0], showText, options())
		},
	}

	cmd.Flags().BoolVar(&showText, "text", false, "Print the extracted text")

	return cmd
}

func sessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Interactive session with tabs; extracted pages are cached per tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.Session(context.Background(), options())
		},
	}
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show stored settings (API keys masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.ShowSettings(context.Background(), options())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set key=value...",
		Short: "Store one or more settings",
		Long: `Store settings. Keys: activeProvider, summaryDefault, modelGemini,
modelClaude, geminiKey, claudeKey, autoSelectionEnabled.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.SetSettings(context.Background(), args, options())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-key [provider]",
		Short: "Delete the stored API key for a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.DeleteKey(context.Background(), args[0], options())
		},
	})

	return cmd
}
