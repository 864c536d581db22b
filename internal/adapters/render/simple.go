package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"github.com/mvp3/tablegen/internal/domain"
)

// SimpleDoc writes a centered-title plus body-text document: A4, 56pt
// margins, automatic page breaks. Backs the plain document endpoint.
func SimpleDoc(w io.Writer, title, content, fontPath string) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(56, 56, 56)
	doc.SetAutoPageBreak(true, 56)
	family, tr := docFont(doc, fontPath)
	doc.AddPage()

	pageW, _ := doc.GetPageSize()
	width := pageW - 112

	doc.SetFont(family, "B", 22)
	doc.MultiCell(width, 26, tr(title), "", "C", false)
	doc.Ln(16)

	doc.SetFont(family, "", 12)
	doc.MultiCell(width, 16, tr(content), "", "L", false)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return nil
}

// CompareItem is one vendor quote line in a comparison export.
type CompareItem struct {
	Vendor   string `json:"vendor"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Qty      string `json:"qty"`
	LeadTime string `json:"leadtime"`
	Notes    string `json:"notes"`
}

// ComparePDF writes a vendor price comparison: one line per quote, the
// lowest priced quote per SKU set in green.
func ComparePDF(w io.Writer, title string, items []CompareItem, fontPath string) error {
	best := bestPrices(items)

	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(36, 36, 36)
	doc.SetAutoPageBreak(true, 36)
	family, tr := docFont(doc, fontPath)
	doc.AddPage()

	pageW, _ := doc.GetPageSize()
	width := pageW - 72

	doc.SetFont(family, "B", 18)
	doc.MultiCell(width, 22, tr(title), "", "L", false)
	doc.Ln(6)

	doc.SetFont(family, "", 11)
	doc.MultiCell(width, 14, "Vendor | SKU | Name | Price | Qty | LeadTime | Notes", "", "L", false)
	doc.MultiCell(width, 14, strings.Repeat("-", 110), "", "L", false)

	for _, it := range items {
		price, ok := parsePrice(it.Price)
		line := strings.Join([]string{
			it.Vendor, it.SKU, it.Name, it.Price, it.Qty, it.LeadTime, it.Notes,
		}, " | ")

		if ok && best[strings.TrimSpace(it.SKU)] == price {
			doc.SetTextColor(31, 136, 61)
		} else {
			doc.SetTextColor(0, 0, 0)
		}
		doc.MultiCell(width, 14, tr(line), "", "L", false)
	}
	doc.SetTextColor(0, 0, 0)

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return nil
}

// bestPrices maps each SKU to its lowest parseable quote.
func bestPrices(items []CompareItem) map[string]float64 {
	best := map[string]float64{}
	for _, it := range items {
		price, ok := parsePrice(it.Price)
		if !ok {
			continue
		}
		sku := strings.TrimSpace(it.SKU)
		if sku == "" {
			continue
		}
		if cur, seen := best[sku]; !seen || price < cur {
			best[sku] = price
		}
	}
	return best
}

func parsePrice(raw string) (float64, bool) {
	raw = strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	var v float64
	if _, err := fmt.Sscanf(raw, "%f", &v); err != nil {
		return 0, false
	}
	return v, true
}

// docFont resolves the document font, preferring an optional UTF-8 TTF.
func docFont(doc *fpdf.Fpdf, fontPath string) (string, func(string) string) {
	if fontPath == "" {
		return "Helvetica", doc.UnicodeTranslatorFromDescriptor("")
	}
	doc.AddUTF8Font("custom", "", fontPath)
	doc.AddUTF8Font("custom", "B", fontPath)
	if doc.Err() {
		log.Warn().Str("font", fontPath).Msg("font load failed, falling back to Helvetica")
		doc.ClearError()
		return "Helvetica", doc.UnicodeTranslatorFromDescriptor("")
	}
	return "custom", func(s string) string { return s }
}
