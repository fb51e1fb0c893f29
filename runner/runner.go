package runner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/loclab/changeling"
)

// Runner iterates discovered documents across the configured target
// languages, translating each (document, language) pair independently.
type Runner struct {
	translator *changeling.Translator
	languages  []changeling.LanguageSpec
	outputDir  string

	skipUnchanged bool
	fanout        int

	logger zerolog.Logger
}

// PairError records one failed (document, language) pair.
type PairError struct {
	Doc  string
	Lang string
	Err  error
}

// Report summarizes a run. A failing pair never aborts the run; it is
// counted here and the run continues.
type Report struct {
	Written int
	Skipped int
	Failed  int
	Errors  []PairError
}

// New creates a Runner.
func New(translator *changeling.Translator, languages []changeling.LanguageSpec, outputDir string, opts ...Option) *Runner {
	r := &Runner{
		translator:    translator,
		languages:     languages,
		outputDir:     outputDir,
		skipUnchanged: true,
		fanout:        1,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Option is a functional option for configuring the Runner.
type Option func(*Runner)

// WithSkipUnchanged controls the unchanged-content write skip.
func WithSkipUnchanged(skip bool) Option {
	return func(r *Runner) {
		r.skipUnchanged = skip
	}
}

// WithLanguageFanout bounds how many languages of one document are
// translated concurrently. Values below 2 keep the run fully sequential.
func WithLanguageFanout(n int) Option {
	return func(r *Runner) {
		if n > 1 {
			r.fanout = n
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Run translates every document into every configured language. Languages
// of one document may fan out when configured; documents are processed one
// at a time. Chunk ordering inside a pair stays sequential regardless.
func (r *Runner) Run(ctx context.Context, docs []changeling.Document) Report {
	var report Report
	var mu sync.Mutex

	for _, doc := range docs {
		if r.fanout > 1 {
			r.runFanned(ctx, doc, &report, &mu)
			continue
		}
		for _, lang := range r.languages {
			r.processPair(ctx, doc, lang, &report, &mu)
		}
	}

	return report
}

// runFanned issues all languages of one document concurrently, bounded by
// the fanout limit, and joins before returning.
func (r *Runner) runFanned(ctx context.Context, doc changeling.Document, report *Report, mu *sync.Mutex) {
	sem := make(chan struct{}, r.fanout)
	var wg sync.WaitGroup

	for _, lang := range r.languages {
		wg.Add(1)
		sem <- struct{}{}
		go func(lang changeling.LanguageSpec) {
			defer wg.Done()
			defer func() { <-sem }()
			r.processPair(ctx, doc, lang, report, mu)
		}(lang)
	}

	wg.Wait()
}

// processPair translates one (document, language) pair and persists the
// output. Failures are recorded and never propagate to sibling pairs.
func (r *Runner) processPair(ctx context.Context, doc changeling.Document, lang changeling.LanguageSpec, report *Report, mu *sync.Mutex) {
	log := r.logger.With().Str("doc", doc.RelPath).Str("lang", lang.Code).Logger()

	result, err := r.translator.Translate(ctx, doc, lang)
	if err != nil {
		log.Error().Err(err).Msg("translation failed")
		mu.Lock()
		report.Failed++
		report.Errors = append(report.Errors, PairError{Doc: doc.RelPath, Lang: lang.Code, Err: err})
		mu.Unlock()
		return
	}

	outPath := filepath.Join(r.outputDir, lang.Code, filepath.FromSlash(doc.RelPath))

	if r.skipUnchanged && unchanged(outPath, result.Content) {
		log.Info().Msg("output unchanged, skipping write")
		mu.Lock()
		report.Skipped++
		mu.Unlock()
		return
	}

	if err := writeAtomic(outPath, result.Content); err != nil {
		log.Error().Err(err).Msg("writing output failed")
		mu.Lock()
		report.Failed++
		report.Errors = append(report.Errors, PairError{Doc: doc.RelPath, Lang: lang.Code, Err: err})
		mu.Unlock()
		return
	}

	log.Info().
		Int("chunks", result.Chunks).
		Int("translated", result.TranslatedCount).
		Int("cached", result.CachedCount).
		Msg("wrote translation")

	mu.Lock()
	report.Written++
	mu.Unlock()
}

// unchanged reports whether an existing output file already holds the new
// content, compared after trimming surrounding whitespace.
func unchanged(path, content string) bool {
	existing, err := os.ReadFile(path) // #nosec G304 - path is derived from configuration
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(existing)) == strings.TrimSpace(content)
}

// writeAtomic persists content via a temp file and rename, so a killed run
// never leaves a partially-written output.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &changeling.WriteError{Path: path, Cause: err}
	}

	tmp, err := os.CreateTemp(dir, ".changeling-*")
	if err != nil {
		return &changeling.WriteError{Path: path, Cause: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &changeling.WriteError{Path: path, Cause: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &changeling.WriteError{Path: path, Cause: err}
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &changeling.WriteError{Path: path, Cause: err}
	}

	return nil
}
