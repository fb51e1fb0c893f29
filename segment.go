package changeling

import "strings"

// SplitChunks splits text into ordered chunks no larger than maxChars.
// Paragraphs (blocks separated by a blank line) are grouped greedily; a
// paragraph that alone exceeds the budget is sub-split at line boundaries.
// A single line longer than the budget is emitted as its own oversized
// chunk, never split further. Empty input yields zero chunks.
func SplitChunks(text string, maxChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChunkChars
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n\n"))
			current = nil
			currentLen = 0
		}
	}

	for _, para := range splitParagraphs(text) {
		if len(para) > maxChars {
			flush()
			chunks = append(chunks, splitOversized(para, maxChars)...)
			continue
		}

		joined := currentLen + len(para)
		if len(current) > 0 {
			joined += len("\n\n")
		}
		if joined > maxChars {
			flush()
		}

		current = append(current, para)
		currentLen += len(para)
		if len(current) > 1 {
			currentLen += len("\n\n")
		}
	}

	flush()
	return chunks
}

// splitParagraphs splits on the double-newline paragraph delimiter,
// dropping blank runs, in document order. Only surrounding blank lines are
// trimmed; indentation inside a paragraph (code blocks, list continuations)
// stays intact.
func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	paras := make([]string, 0, len(raw))
	for _, p := range raw {
		p = trimBlankLines(p)
		if p != "" {
			paras = append(paras, p)
		}
	}
	return paras
}

// trimBlankLines strips leading and trailing all-whitespace lines from a
// paragraph without touching the remaining lines.
func trimBlankLines(p string) string {
	lines := strings.Split(p, "\n")
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}

// splitOversized sub-splits a paragraph larger than the budget at line
// granularity, using the same accumulate/flush strategy.
func splitOversized(para string, maxChars int) []string {
	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
			currentLen = 0
		}
	}

	for _, line := range strings.Split(para, "\n") {
		if len(line) > maxChars {
			flush()
			chunks = append(chunks, line)
			continue
		}

		joined := currentLen + len(line)
		if len(current) > 0 {
			joined += len("\n")
		}
		if joined > maxChars {
			flush()
		}

		current = append(current, line)
		currentLen += len(line)
		if len(current) > 1 {
			currentLen += len("\n")
		}
	}

	flush()
	return chunks
}
