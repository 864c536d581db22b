package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mvp3/tablegen/internal/domain"
)

// Projector builds display-ready rows: headers translated once, the
// description field translated per record, everything else passed
// through verbatim with missing values coerced to "".
type Projector struct {
	Translator  domain.Translator
	Concurrency int
}

// Project returns the translated headers and one projected record per
// input record, in input order.
//
// Header translation failure is fatal: without headers there is no
// table. Per-record description translation failure falls back to the
// source text so one bad record cannot sink the batch.
func (p *Projector) Project(ctx context.Context, records []domain.ProductRecord, fields []string, lang string) ([]string, []domain.ProjectedRecord, error) {
	headers, err := p.Translator.TranslateBatch(ctx, fields, lang)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: headers: %v", domain.ErrTranslation, err)
	}
	if len(headers) != len(fields) {
		return nil, nil, fmt.Errorf("%w: got %d headers for %d fields", domain.ErrTranslation, len(headers), len(fields))
	}

	wantsDescription := false
	for _, f := range fields {
		if f == domain.FieldDescription {
			wantsDescription = true
		}
	}

	projected := make([]domain.ProjectedRecord, len(records))
	for i, rec := range records {
		row := make(domain.ProjectedRecord, len(fields))
		for _, f := range fields {
			row[f] = rec.FieldValue(f)
		}
		projected[i] = row
	}

	if wantsDescription {
		limit := p.Concurrency
		if limit <= 0 {
			limit = 8
		}
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for i := range projected {
			i := i
			src := records[i].Description
			if src == "" {
				continue
			}
			g.Go(func() error {
				translated, err := p.Translator.Translate(gctx, src, lang)
				if err != nil {
					log.Warn().Err(err).Int("record", i).Msg("description translation failed, keeping source text")
					return nil
				}
				projected[i][domain.FieldDescription] = translated
				return nil
			})
		}
		_ = g.Wait()
	}

	return headers, projected, nil
}
