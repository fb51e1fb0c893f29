// Command changeling translates changelog documents using AI.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/loclab/changeling"
	"github.com/loclab/changeling/cache"
	"github.com/loclab/changeling/provider"
	"github.com/loclab/changeling/runner"
)

// Build-time variables (can be overridden with ldflags)
var (
	version = changeling.Version
	commit  = changeling.GitCommit
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("changeling", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags
	lang := fs.String("lang", "", "Target language code for single-file mode (e.g. de, ja)")
	dryRun := fs.Bool("dry-run", false, "Show what would be translated without calling the API")
	diffFile := fs.String("diff", "", "Compare a file with a previous revision and show changed chunks")
	cacheImport := fs.String("cache-import", "", "Seed the translation cache from a JSON export before the run")
	cacheExport := fs.String("cache-export", "", "Export the translation cache to a JSON file after the run")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", changeling.Name, version)
		if commit != "unknown" && commit != "" {
			fmt.Fprintf(stdout, "  commit: %s\n", commit)
		}
		return nil
	}

	cfg, err := runner.Load()
	if err != nil {
		return err
	}

	logger, err := runner.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}

	// Single-file mode: translate (or inspect) one document to stdout.
	if fs.NArg() > 0 {
		return runSingleFile(cfg, fs.Arg(0), *lang, *dryRun, *diffFile, stdout, logger)
	}

	languages, err := runner.LoadLanguages(cfg.LanguagesFile)
	if err != nil {
		return err
	}

	docs, err := runner.DiscoverDocuments(cfg.SourceDir, changeling.DefaultExtensions)
	if err != nil {
		return err
	}

	if *dryRun {
		return runDryRun(cfg, docs, languages, stdout)
	}

	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key required (OPENAI_API_KEY)")
	}

	chunkCache, err := buildCache(cfg)
	if err != nil {
		return err
	}

	if *cacheImport != "" && chunkCache != nil {
		result, err := cache.NewImporter(chunkCache).ImportFromFile(*cacheImport)
		if err != nil {
			return fmt.Errorf("importing cache: %w", err)
		}
		logger.Info().Int("imported", result.Imported).Int("failed", result.Failed).Msg("seeded cache")
	}

	translator := buildTranslator(cfg, chunkCache, logger)

	r := runner.New(translator, languages, cfg.OutputDir,
		runner.WithSkipUnchanged(cfg.SkipUnchanged),
		runner.WithLanguageFanout(cfg.LanguageFanout),
		runner.WithLogger(logger),
	)

	report := r.Run(context.Background(), docs)

	if *cacheExport != "" && chunkCache != nil {
		if err := cache.NewExporter(chunkCache).ExportToFile(*cacheExport, map[string]string{
			"source_dir": cfg.SourceDir,
		}); err != nil {
			return fmt.Errorf("exporting cache: %w", err)
		}
	}

	fmt.Fprintf(stdout, "Done: %d written, %d skipped, %d failed\n",
		report.Written, report.Skipped, report.Failed)
	for _, pairErr := range report.Errors {
		fmt.Fprintf(stdout, "  failed: %s [%s]: %v\n", pairErr.Doc, pairErr.Lang, pairErr.Err)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d pairs failed", report.Failed,
			report.Written+report.Skipped+report.Failed)
	}

	return nil
}

// buildCompleter layers the circuit breaker and the rate limiter over the
// OpenAI client. Retry happens inside the translator, per chunk.
func buildCompleter(cfg runner.Config) changeling.Completer {
	var completer changeling.Completer = provider.NewOpenAIClient(provider.OpenAIConfig{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
	})

	completer = changeling.NewBreakerCompleter(completer, changeling.DefaultBreakerConfig())
	completer = changeling.NewRateLimitedCompleter(completer, changeling.RateLimitConfig{
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	return completer
}

func buildCache(cfg runner.Config) (changeling.TranslationCache, error) {
	switch cfg.Cache {
	case "none":
		return nil, nil
	case "redis":
		return cache.NewRedisCache(cache.RedisConfig{
			URL: cfg.RedisURL,
			TTL: cfg.CacheTTL,
		})
	default:
		return cache.NewInMemoryCache(cfg.CacheTTL), nil
	}
}

func buildTranslator(cfg runner.Config, chunkCache changeling.TranslationCache, logger zerolog.Logger) *changeling.Translator {
	opts := []changeling.TranslatorOption{
		changeling.WithMaxChunkChars(cfg.MaxChunkChars),
		changeling.WithRetryConfig(changeling.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   cfg.BackoffBase(),
			Logger:      logger,
		}),
		changeling.WithLogger(logger),
	}
	if chunkCache != nil {
		opts = append(opts, changeling.WithCache(chunkCache))
	}
	if cfg.VerbatimMarker != "" {
		opts = append(opts, changeling.WithMarker(cfg.VerbatimMarker, cfg.MarkerPolicy()))
	}

	return changeling.NewTranslator(buildCompleter(cfg), opts...)
}

// runSingleFile translates or inspects one document.
func runSingleFile(cfg runner.Config, path, langCode string, dryRun bool, diffPath string, stdout io.Writer, logger zerolog.Logger) error {
	data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	content := string(data)
	name := filepath.Base(path)

	if diffPath != "" {
		return runDiff(content, diffPath, name, cfg.MaxChunkChars, stdout)
	}

	if dryRun {
		chunks := changeling.SplitChunks(eligibleText(cfg, content), cfg.MaxChunkChars)
		fmt.Fprintf(stdout, "Dry run: %s\n", name)
		fmt.Fprintf(stdout, "Found %d chunks (budget %d chars):\n\n", len(chunks), cfg.MaxChunkChars)
		for i, chunk := range chunks {
			preview := chunk
			if len(preview) > 60 {
				preview = preview[:57] + "..."
			}
			fmt.Fprintf(stdout, "%3d. %q\n", i+1, preview)
		}
		return nil
	}

	if langCode == "" {
		return fmt.Errorf("--lang is required to translate a single file")
	}
	if cfg.OpenAIAPIKey == "" {
		return fmt.Errorf("OpenAI API key required (OPENAI_API_KEY)")
	}

	translator := buildTranslator(cfg, nil, logger)

	result, err := translator.Translate(context.Background(), changeling.Document{
		RelPath: name,
		Content: content,
	}, changeling.LanguageSpec{Code: langCode})
	if err != nil {
		return err
	}

	fmt.Fprint(stdout, result.Content)
	return nil
}

// eligibleText applies the configured verbatim marker the way a real run
// would, so dry-run chunk counts match what gets sent.
func eligibleText(cfg runner.Config, content string) string {
	if cfg.VerbatimMarker == "" {
		return content
	}
	eligible, _, _ := changeling.SplitMarker(content, cfg.VerbatimMarker, cfg.MarkerPolicy())
	return eligible
}

// runDryRun lists every (document, language) pair and its chunk count
// without calling the API.
func runDryRun(cfg runner.Config, docs []changeling.Document, languages []changeling.LanguageSpec, stdout io.Writer) error {
	fmt.Fprintf(stdout, "Dry run: %d documents x %d languages\n\n", len(docs), len(languages))
	for _, doc := range docs {
		chunks := changeling.SplitChunks(eligibleText(cfg, doc.Content), cfg.MaxChunkChars)
		for _, lang := range languages {
			fmt.Fprintf(stdout, "  %s -> %s/%s (%d chunks)\n",
				doc.RelPath, lang.Code, doc.RelPath, len(chunks))
		}
	}
	return nil
}

// runDiff compares a document with a previous revision at chunk level.
func runDiff(newContent, oldPath, name string, maxChars int, stdout io.Writer) error {
	oldData, err := os.ReadFile(oldPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading previous revision: %w", err)
	}

	diff := changeling.DiffChunks(string(oldData), newContent, maxChars)

	fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", name, filepath.Base(oldPath))
	fmt.Fprintf(stdout, "  Unchanged: %d\n", diff.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", len(diff.Added))
	fmt.Fprintf(stdout, "  Removed:   %d\n\n", len(diff.Removed))

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "No changes detected. Cached translations cover everything.\n")
		return nil
	}

	for _, chunk := range diff.Added {
		preview := chunk.Text
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
		fmt.Fprintf(stdout, "  + %q\n", preview)
	}
	for _, text := range diff.Removed {
		preview := text
		if len(preview) > 50 {
			preview = preview[:47] + "..."
		}
		fmt.Fprintf(stdout, "  - %q\n", preview)
	}

	return nil
}
