package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/mvp3/tablegen/internal/domain"
)

// HTML extracts product data from a live page: Open Graph tags first,
// then schema.org Product JSON-LD, then a handful of common meta and
// itemprop fallbacks. One page yields at most one record.
type HTML struct {
	client *http.Client
}

func NewHTML(timeout time.Duration) *HTML {
	return &HTML{client: &http.Client{Timeout: timeout}}
}

var priceRe = regexp.MustCompile(`[0-9]+(?:[.,][0-9]{1,2})?`)

func (c *HTML) Crawl(ctx context.Context, pageURL string) ([]domain.ProductRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status code %d", domain.ErrFetch, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetch, err)
	}

	rec := domain.ProductRecord{ProductURL: pageURL, Params: map[string]string{}}

	rec.Name = metaContent(doc, `meta[property="og:title"]`)
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}
	rec.ImageURL = metaContent(doc, `meta[property="og:image"]`)
	rec.Description = metaContent(doc, `meta[property="og:description"]`)
	if rec.Description == "" {
		rec.Description = metaContent(doc, `meta[name="description"]`)
	}
	rec.Price = metaContent(doc, `meta[property="product:price:amount"]`)
	if rec.Price == "" {
		rec.Price = strings.TrimSpace(doc.Find(`[itemprop="price"]`).First().AttrOr("content", ""))
	}

	c.applyJSONLD(doc, &rec)

	if rec.Price != "" {
		rec.Price = priceRe.FindString(strings.ReplaceAll(rec.Price, ",", "."))
	}
	if rec.Name == "" {
		log.Warn().Str("url", pageURL).Msg("page carries no recognizable product data")
		return nil, fmt.Errorf("%w: no product data at %s", domain.ErrFetch, pageURL)
	}

	return []domain.ProductRecord{rec}, nil
}

// applyJSONLD fills gaps from the first schema.org Product block found.
func (c *HTML) applyJSONLD(doc *goquery.Document, rec *domain.ProductRecord) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var ld struct {
			Type        string          `json:"@type"`
			Name        string          `json:"name"`
			Image       json.RawMessage `json:"image"`
			Description string          `json:"description"`
			Offers      struct {
				Price json.Number `json:"price"`
			} `json:"offers"`
			AdditionalProperty []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"additionalProperty"`
		}
		if err := json.Unmarshal([]byte(sel.Text()), &ld); err != nil || !strings.EqualFold(ld.Type, "Product") {
			return true
		}
		if rec.Name == "" {
			rec.Name = ld.Name
		}
		if rec.Description == "" {
			rec.Description = ld.Description
		}
		if rec.Price == "" && ld.Offers.Price != "" {
			rec.Price = ld.Offers.Price.String()
		}
		if rec.ImageURL == "" {
			rec.ImageURL = firstImage(ld.Image)
		}
		for _, p := range ld.AdditionalProperty {
			if p.Name != "" && p.Value != "" {
				rec.Params[strings.ToLower(p.Name)] = p.Value
			}
			if strings.EqualFold(p.Name, "moq") {
				if n, err := strconv.Atoi(strings.TrimSpace(p.Value)); err == nil {
					rec.MOQ = n
				}
			}
		}
		return false
	})
}

// firstImage handles the two shapes schema.org allows for image: a
// plain string or an array of strings.
func firstImage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		return one
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 {
		return many[0]
	}
	return ""
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
