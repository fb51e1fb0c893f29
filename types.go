package changeling

import (
	"path/filepath"
	"strings"
)

// Document is a source changelog file to translate.
type Document struct {
	RelPath string // Path relative to the source directory
	Content string // Raw UTF-8 text, read once
}

// Eligible reports whether the document's extension marks it as a
// translation candidate.
func (d Document) Eligible(exts []string) bool {
	ext := strings.ToLower(filepath.Ext(d.RelPath))
	for _, allowed := range exts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// DefaultExtensions is the extension allow-list for translation candidates.
var DefaultExtensions = []string{".md", ".mdx"}

// LanguageSpec is one target language of a run.
type LanguageSpec struct {
	Code        string `yaml:"code"`        // Output path segment (e.g. "de", "ja")
	Name        string `yaml:"name"`        // Display name for prompts and logs
	Instruction string `yaml:"instruction"` // Behavioral contract for the completion service
}

// CompletionRequest is one remote translation call: an instruction plus the
// content to transform.
type CompletionRequest struct {
	Instruction string
	Content     string
}

// DocumentResult is the outcome of translating one (document, language) pair.
type DocumentResult struct {
	Content         string // Reassembled document text
	Chunks          int    // Chunks the eligible region was split into
	TranslatedCount int    // Chunks translated via the completer
	CachedCount     int    // Chunks served from cache
}

// DefaultMaxChunkChars is the segmentation budget used when none is configured.
const DefaultMaxChunkChars = 4000
