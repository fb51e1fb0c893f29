package changeling

import (
	"fmt"
	"strings"
)

// LanguageNames maps language codes to human-readable names for prompts.
var LanguageNames = map[string]string{
	"en": "English",
	"de": "German",
	"es": "Spanish",
	"fr": "French",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"pl": "Polish",
	"pt": "Portuguese",
	"ru": "Russian",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese (Simplified)",
}

// DisplayName returns the human-readable name for a language spec, falling
// back to the mapped code name and finally the code itself.
func DisplayName(lang LanguageSpec) string {
	if lang.Name != "" {
		return lang.Name
	}
	base := strings.ToLower(strings.Split(strings.ReplaceAll(lang.Code, "-", "_"), "_")[0])
	if name, ok := LanguageNames[base]; ok {
		return name
	}
	return lang.Code
}

// DefaultInstruction builds the behavioral contract for a language that does
// not carry its own instruction string. The contract pins down what must
// never be translated in a changelog document.
func DefaultInstruction(lang LanguageSpec) string {
	name := DisplayName(lang)
	return fmt.Sprintf(`You are an expert technical translator. Translate the provided changelog text into idiomatic %s.

Rules:
- Translate prose only. Do NOT translate HTML tags, attributes, URLs, file paths, code blocks, inline code in backticks, table syntax, or version numbers.
- Keep Markdown/MDX structure exactly as it appears: heading levels, list markers, link targets, emphasis markers.
- Do NOT add, drop, or reorder content.
- Keep a neutral, precise register suitable for release notes.
- Return only the translated text, with no commentary and no code fences around it.`, name)
}

// InstructionFor returns the instruction configured on the language, or the
// default changelog instruction when none is set.
func InstructionFor(lang LanguageSpec) string {
	if strings.TrimSpace(lang.Instruction) != "" {
		return lang.Instruction
	}
	return DefaultInstruction(lang)
}

// ChunkNote returns the cross-chunk style-consistency note appended to the
// instruction when a document is split into more than one chunk.
func ChunkNote(index, total int) string {
	return fmt.Sprintf("\n\nThis is chunk %d of %d of the same document. Keep terminology and style consistent across chunks.", index, total)
}
