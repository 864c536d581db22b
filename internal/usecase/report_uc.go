package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mvp3/tablegen/internal/domain"
)

// ReportUC drives one generation request end to end: ingest, project,
// render every requested format, publish artifacts.
type ReportUC struct {
	Crawler   domain.Crawler
	Projector *Projector
	Renderers map[domain.Format]domain.Renderer
	Store     domain.ArtifactStore
	BaseURL   string

	CrawlConcurrency int

	// Now is swappable for deterministic artifact names in tests.
	Now func() time.Time
}

func (uc *ReportUC) Generate(ctx context.Context, req *domain.GenerationRequest) (*domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := uc.ingest(ctx, req.URLs)
	if err != nil {
		return nil, err
	}

	headers, projected, err := uc.Projector.Project(ctx, records, req.Fields, req.Lang)
	if err != nil {
		return nil, err
	}
	table := domain.Table{Fields: req.Fields, Headers: headers, Records: projected}

	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	stamp := now().UnixNano() / int64(time.Millisecond)

	result := &domain.GenerationResult{}
	var lastErr error
	for _, format := range req.Formats {
		artifact, err := uc.renderOne(ctx, format, stamp, table)
		if err != nil {
			// per-format isolation: a failed sibling never discards
			// an already published artifact
			log.Error().Err(err).Str("format", string(format)).Msg("render failed")
			lastErr = err
			continue
		}
		switch format {
		case domain.FormatExcel:
			result.Excel = artifact
		case domain.FormatPDF:
			result.PDF = artifact
		}
	}

	if result.Empty() {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, fmt.Errorf("%w: nothing rendered", domain.ErrRender)
	}
	return result, nil
}

// ingest crawls every URL, up to CrawlConcurrency in flight, and
// concatenates the results in URL submission order. Any crawl failure
// is fatal to the request: no partial product list is synthesized.
func (uc *ReportUC) ingest(ctx context.Context, urls []string) ([]domain.ProductRecord, error) {
	perURL := make([][]domain.ProductRecord, len(urls))

	limit := uc.CrawlConcurrency
	if limit <= 0 {
		limit = 4
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			recs, err := uc.Crawler.Crawl(gctx, u)
			if err != nil {
				return fmt.Errorf("crawl %s: %w", u, err)
			}
			perURL[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []domain.ProductRecord
	for _, recs := range perURL {
		all = append(all, recs...)
	}
	return all, nil
}

// renderOne renders a single format in memory and publishes the bytes
// as a fresh artifact. Nothing is visible under the final name until
// the write completed.
func (uc *ReportUC) renderOne(ctx context.Context, format domain.Format, stamp int64, table domain.Table) (*domain.Artifact, error) {
	renderer, ok := uc.Renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no renderer for %q", domain.ErrRender, format)
	}

	var buf bytes.Buffer
	if err := renderer.Render(ctx, &buf, table); err != nil {
		return nil, err
	}

	name := fmt.Sprintf("tablegen_%d%s", stamp, format.Ext())
	w, err := uc.Store.Create(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		_ = w.Close()
		_ = uc.Store.Remove(name)
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	return &domain.Artifact{
		Name:      name,
		URL:       strings.TrimRight(uc.BaseURL, "/") + "/files/" + name,
		SizeBytes: w.Size(),
	}, nil
}
