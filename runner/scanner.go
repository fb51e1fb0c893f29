package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/loclab/changeling"
)

// DiscoverDocuments walks root and returns every translation-eligible
// document (by extension allow-list) with its content loaded, ordered by
// path. Hidden directories are skipped.
func DiscoverDocuments(root string, exts []string) ([]changeling.Document, error) {
	if len(exts) == 0 {
		exts = changeling.DefaultExtensions
	}

	var docs []changeling.Document

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		doc := changeling.Document{RelPath: filepath.ToSlash(rel)}
		if !doc.Eligible(exts) {
			return nil
		}

		data, err := os.ReadFile(path) // #nosec G304 - path comes from the configured source tree
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		doc.Content = string(data)

		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return docs, nil
}
