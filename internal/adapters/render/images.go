package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mvp3/tablegen/internal/domain"
)

const maxImageBytes = 10 << 20

// Fetcher downloads thumbnail images for embedding. Every call is
// bounded by the client timeout; callers treat failures as skips.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", domain.ErrFetch, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrFetch)
	}
	return data, nil
}

// prefetchImages pulls every record's image concurrently, capped at four
// in flight, and returns a slice aligned with the records. A failed or
// absent image leaves a nil entry; rendering continues without it.
func prefetchImages(ctx context.Context, fetcher domain.ImageFetcher, records []domain.ProjectedRecord) [][]byte {
	out := make([][]byte, len(records))
	if fetcher == nil {
		return out
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, rec := range records {
		uri := rec.Image()
		if uri == "" {
			continue
		}
		i := i
		g.Go(func() error {
			data, err := fetcher.Fetch(gctx, uri)
			if err != nil {
				log.Warn().Err(err).Str("image", uri).Msg("image fetch failed, cell stays empty")
				return nil
			}
			out[i] = data
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// imageExtension sniffs the encoded format; empty means unembeddable.
func imageExtension(data []byte) string {
	switch http.DetectContentType(data) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	}
	return ""
}
