// Package changeling provides an AI-powered changelog translation pipeline.
//
// Changeling translates Markdown/MDX changelog documents into one or more
// target languages through a text-completion service, while keeping
// non-prose structure (HTML tags, code blocks, tables, version numbers)
// intact. Large documents are split into API-size-safe chunks at paragraph
// boundaries, each chunk is driven through a retrying remote call, and the
// results are reassembled in source order around any verbatim-preserved
// region.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/loclab/changeling"
//	    "github.com/loclab/changeling/cache"
//	    "github.com/loclab/changeling/provider"
//	)
//
//	func main() {
//	    // Create completer
//	    c := provider.NewOpenAIClient(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    // Create translator
//	    t := changeling.NewTranslator(c,
//	        changeling.WithCache(cache.NewInMemoryCache(3600)),
//	        changeling.WithMaxChunkChars(4000),
//	    )
//
//	    doc := changeling.Document{RelPath: "CHANGELOG.md", Content: "## 1.2.0\n\nAdded things."}
//	    lang := changeling.LanguageSpec{Code: "de", Name: "German"}
//
//	    result, err := t.Translate(context.Background(), doc, lang)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Content)
//	}
package changeling
