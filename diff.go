package changeling

// ChunkChange pairs a chunk with its position in the new revision.
type ChunkChange struct {
	Index int
	Text  string
}

// ChunkDiff is the result of comparing the paragraph chunks of two document
// revisions. Chunks are matched by content hash, so moves count as
// unchanged and only genuinely new or dropped text shows up.
type ChunkDiff struct {
	Added     []ChunkChange // Chunks present only in the new revision
	Removed   []string      // Chunks present only in the old revision
	Unchanged int           // Chunks present in both
}

// DiffChunks segments both revisions with the same budget and compares the
// resulting chunks by hash.
func DiffChunks(oldText, newText string, maxChars int) ChunkDiff {
	oldChunks := SplitChunks(oldText, maxChars)
	newChunks := SplitChunks(newText, maxChars)

	oldByHash := make(map[string]int, len(oldChunks))
	for _, c := range oldChunks {
		oldByHash[HashChunk(c)]++
	}

	var diff ChunkDiff
	for i, c := range newChunks {
		h := HashChunk(c)
		if oldByHash[h] > 0 {
			oldByHash[h]--
			diff.Unchanged++
			continue
		}
		diff.Added = append(diff.Added, ChunkChange{Index: i, Text: c})
	}

	for _, c := range oldChunks {
		h := HashChunk(c)
		if oldByHash[h] > 0 {
			oldByHash[h]--
			diff.Removed = append(diff.Removed, c)
		}
	}

	return diff
}

// HasChanges reports whether any chunk was added or removed.
func (d ChunkDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// NeedsTranslation returns the chunks that would require a remote call if
// the new revision were translated against a cache seeded from the old one.
func (d ChunkDiff) NeedsTranslation() []string {
	texts := make([]string, 0, len(d.Added))
	for _, c := range d.Added {
		texts = append(texts, c.Text)
	}
	return texts
}
