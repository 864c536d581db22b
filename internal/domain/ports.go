package domain

import (
	"context"
	"io"
)

// Crawler turns one source URL into its product records.
type Crawler interface {
	Crawl(ctx context.Context, url string) ([]ProductRecord, error)
}

// Translator converts display text into the target language. A pure
// pass-through implementation is a valid stub.
type Translator interface {
	Translate(ctx context.Context, text, lang string) (string, error)
	TranslateBatch(ctx context.Context, texts []string, lang string) ([]string, error)
}

// ImageFetcher downloads one image, bounded by its own timeout. Errors
// are always treated as non-fatal by callers.
type ImageFetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Renderer turns one table into a concrete document format.
type Renderer interface {
	Render(ctx context.Context, w io.Writer, table Table) error
}

// ArtifactWriter receives rendered bytes. Close publishes the artifact;
// nothing is visible under its final name before that.
type ArtifactWriter interface {
	io.WriteCloser
	// Size reports the byte count written so far.
	Size() int64
}

// ArtifactStore owns the append-only output directory.
type ArtifactStore interface {
	Create(name string) (ArtifactWriter, error)
	// Remove discards a published artifact. Best-effort cleanup only.
	Remove(name string) error
}
