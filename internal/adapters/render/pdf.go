package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog/log"

	"github.com/mvp3/tablegen/internal/domain"
)

const (
	pageMargin = 36.0
	cardGap    = 20.0
	cardHeight = 240.0
	cardPad    = 10.0
	thumbSize  = 110.0
	descLimit  = 160
)

// PDF lays records out as bordered cards on a fixed grid: three columns
// by default, fixed card height, page break whenever the next row would
// cross the bottom margin.
type PDF struct {
	images   domain.ImageFetcher
	columns  int
	fontPath string
}

func NewPDF(images domain.ImageFetcher, columns int, fontPath string) *PDF {
	if columns <= 0 {
		columns = 3
	}
	return &PDF{images: images, columns: columns, fontPath: fontPath}
}

// CardWidth derives the card width from the page geometry. Kept exact
// and side-effect free so layout parity can be asserted in tests.
func CardWidth(pageWidth float64, columns int) float64 {
	return (pageWidth - 2*pageMargin - cardGap*float64(columns-1)) / float64(columns)
}

func (r *PDF) Render(ctx context.Context, w io.Writer, table domain.Table) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	family, tr := docFont(doc, r.fontPath)
	doc.AddPage()

	pageW, pageH := doc.GetPageSize()
	cardW := CardWidth(pageW, r.columns)

	thumbs := prefetchImages(ctx, r.images, table.Records)

	x, y := pageMargin, pageMargin
	for i, rec := range table.Records {
		if i > 0 && i%r.columns == 0 {
			x = pageMargin
			y += cardHeight + cardGap
			if y+cardHeight > pageH-pageMargin {
				doc.AddPage()
				y = pageMargin
			}
		}

		doc.SetDrawColor(221, 221, 221)
		doc.Rect(x, y, cardW, cardHeight, "D")

		if thumbs[i] != nil {
			r.placeThumb(doc, i, rec.Image(), thumbs[i], x+(cardW-thumbSize)/2, y+cardPad)
		}

		doc.SetTextColor(0, 0, 0)
		doc.SetFont(family, "B", 12)
		doc.SetXY(x+cardPad, y+126)
		doc.MultiCell(cardW-2*cardPad, 14, tr(truncate(rec[domain.FieldName], 48)), "", "L", false)

		doc.SetFont(family, "", 10)
		doc.SetXY(x+cardPad, y+158)
		doc.CellFormat(cardW-2*cardPad, 12, tr("Price: "+rec[domain.FieldPrice]), "", 0, "L", false, 0, "")
		doc.SetXY(x+cardPad, y+172)
		doc.CellFormat(cardW-2*cardPad, 12, tr("MOQ: "+rec[domain.FieldMOQ]), "", 0, "L", false, 0, "")

		doc.SetXY(x+cardPad, y+188)
		doc.MultiCell(cardW-2*cardPad, 10, tr(truncate(rec[domain.FieldDescription], descLimit)), "", "L", false)

		x += cardW + cardGap
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return nil
}

// placeThumb registers the image bytes under a per-document name and
// draws it inside the fixed thumbnail box. Decode failures only cost
// the thumb.
func (r *PDF) placeThumb(doc *fpdf.Fpdf, idx int, uri string, data []byte, x, y float64) {
	ext := imageExtension(data)
	if ext == "" {
		log.Warn().Str("image", uri).Msg("unsupported image format, card renders without thumbnail")
		return
	}
	imgType := map[string]string{".png": "PNG", ".jpg": "JPG", ".gif": "GIF"}[ext]
	opts := fpdf.ImageOptions{ImageType: imgType}

	name := fmt.Sprintf("thumb-%d", idx)
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if doc.Err() {
		log.Warn().Str("image", uri).Str("err", doc.Error().Error()).Msg("image decode failed, card renders without thumbnail")
		doc.ClearError()
		return
	}
	doc.ImageOptions(name, x, y, thumbSize, thumbSize, false, opts, 0, "")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
