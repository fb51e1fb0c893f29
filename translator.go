package changeling

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Completer is the interface for the remote text-completion boundary.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// TranslationCache is the interface for per-chunk translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// Translator is the translation orchestrator: it extracts the preserved
// span, segments the eligible region, drives each chunk through the
// completer in order, and reassembles the document.
type Translator struct {
	completer     Completer
	cache         TranslationCache
	maxChunkChars int
	retry         RetryConfig
	marker        string
	policy        MarkerPolicy
	logger        zerolog.Logger
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithCache sets the per-chunk translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithMaxChunkChars sets the segmentation budget.
func WithMaxChunkChars(n int) TranslatorOption {
	return func(t *Translator) {
		t.maxChunkChars = n
	}
}

// WithRetryConfig sets the retry behavior for chunk translation calls.
func WithRetryConfig(cfg RetryConfig) TranslatorOption {
	return func(t *Translator) {
		t.retry = cfg
	}
}

// WithMarker configures the verbatim marker and its preservation policy.
func WithMarker(marker string, policy MarkerPolicy) TranslatorOption {
	return func(t *Translator) {
		t.marker = marker
		t.policy = policy
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) TranslatorOption {
	return func(t *Translator) {
		t.logger = logger
		t.retry.Logger = logger
	}
}

// NewTranslator creates a new Translator backed by the given completer.
func NewTranslator(completer Completer, opts ...TranslatorOption) *Translator {
	t := &Translator{
		completer:     completer,
		maxChunkChars: DefaultMaxChunkChars,
		retry:         DefaultRetryConfig(),
		policy:        PreservePrefix,
		logger:        zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Translate translates one document into one target language. If any
// chunk's retrying invocation exhausts its attempts, the whole pair fails
// and no partial output is returned.
func (t *Translator) Translate(ctx context.Context, doc Document, lang LanguageSpec) (*DocumentResult, error) {
	text := doc.Content

	eligible, preserved := text, ""
	if t.marker != "" {
		var found bool
		eligible, preserved, found = SplitMarker(text, t.marker, t.policy)
		if !found {
			t.logger.Debug().
				Str("doc", doc.RelPath).
				Msg("verbatim marker not found, treating whole document as eligible")
		}
	}

	chunks := SplitChunks(eligible, t.maxChunkChars)
	if len(chunks) == 0 {
		// Nothing to translate; the preserved region passes through as-is.
		return &DocumentResult{Content: preserved}, nil
	}

	result := &DocumentResult{Chunks: len(chunks)}
	translated := make([]string, 0, len(chunks))

	// Chunks carry a cross-chunk style note when there is more than one,
	// so they must run strictly in order.
	for i, chunk := range chunks {
		out, cached, err := t.translateChunk(ctx, chunk, i+1, len(chunks), lang)
		if err != nil {
			return nil, fmt.Errorf("translating %s to %s (chunk %d/%d): %w",
				doc.RelPath, lang.Code, i+1, len(chunks), err)
		}
		if cached {
			result.CachedCount++
		} else {
			result.TranslatedCount++
		}
		translated = append(translated, out)
	}

	body := strings.Join(translated, "\n\n")
	result.Content = t.recombine(body, preserved)
	return result, nil
}

// translateChunk resolves one chunk via the cache or the retrying completer.
func (t *Translator) translateChunk(ctx context.Context, chunk string, index, total int, lang LanguageSpec) (string, bool, error) {
	key := CacheKey(HashChunk(chunk), lang.Code)

	if t.cache != nil {
		if cached, ok := t.cache.Get(key); ok {
			return cached, true, nil
		}
	}

	instruction := InstructionFor(lang)
	if total > 1 {
		instruction += ChunkNote(index, total)
	}

	out, err := WithRetry(ctx, t.retry, func() (string, error) {
		return t.completer.Complete(ctx, CompletionRequest{
			Instruction: instruction,
			Content:     chunk,
		})
	})
	if err != nil {
		return "", false, err
	}

	out = strings.TrimSpace(out)
	if t.cache != nil {
		_ = t.cache.Set(key, out) // Ignore cache set errors
	}

	return out, false, nil
}

// recombine places the translated body and the preserved span back in the
// relative order the marker occupied in the source.
func (t *Translator) recombine(body, preserved string) string {
	if preserved == "" {
		return body
	}
	if body == "" {
		return preserved
	}
	if t.policy == PreserveSuffix {
		return body + "\n\n" + preserved
	}
	return preserved + "\n\n" + body
}

// MaxChunkChars returns the configured segmentation budget.
func (t *Translator) MaxChunkChars() int {
	return t.maxChunkChars
}

// Marker returns the configured verbatim marker, if any.
func (t *Translator) Marker() string {
	return t.marker
}

// Policy returns the configured marker policy.
func (t *Translator) Policy() MarkerPolicy {
	return t.policy
}
