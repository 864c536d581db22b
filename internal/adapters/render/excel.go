package render

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/mvp3/tablegen/internal/domain"
)

const (
	excelSheet     = "Table"
	excelColWidth  = 20
	imageRowHeight = 100
)

// Excel renders one worksheet: a bold header row, one row per record in
// order, and, when the image column is requested, best-effort thumbnails
// anchored to their rows.
type Excel struct {
	images domain.ImageFetcher
}

func NewExcel(images domain.ImageFetcher) *Excel {
	return &Excel{images: images}
}

func (r *Excel) Render(ctx context.Context, w io.Writer, table domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}

	hasImage := table.HasImage()
	headers := table.Headers
	if hasImage {
		headers = append([]string{"image"}, headers...)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRender, err)
		}
		if err := f.SetCellValue(excelSheet, cell, h); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrRender, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	if err := f.SetCellStyle(excelSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	_ = f.SetColWidth(excelSheet, "A", lastCol, excelColWidth)

	var thumbs [][]byte
	if hasImage {
		thumbs = prefetchImages(ctx, r.images, table.Records)
	}

	for i, rec := range table.Records {
		row := i + 2
		col := 1
		if hasImage {
			// image column stays textually blank; the picture anchors here
			col = 2
		}
		for _, field := range table.Fields {
			cell, err := excelize.CoordinatesToCellName(col, row)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrRender, err)
			}
			val := ""
			if field != domain.FieldImageURL {
				val = rec[field]
			}
			if err := f.SetCellValue(excelSheet, cell, val); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrRender, err)
			}
			col++
		}

		if hasImage && thumbs[i] != nil {
			r.embed(f, row, rec.Image(), thumbs[i])
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	return nil
}

// embed anchors one thumbnail to the image column of the given row.
// Any failure leaves the cell empty and the rest of the sheet intact.
func (r *Excel) embed(f *excelize.File, row int, uri string, data []byte) {
	ext := imageExtension(data)
	if ext == "" {
		log.Warn().Str("image", uri).Msg("unsupported image format, cell stays empty")
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return
	}
	if err := f.AddPictureFromBytes(excelSheet, cell, &excelize.Picture{
		Extension: ext,
		File:      data,
		Format:    &excelize.GraphicOptions{AutoFit: true},
	}); err != nil {
		log.Warn().Err(err).Str("image", uri).Msg("image embed failed, cell stays empty")
		return
	}
	_ = f.SetRowHeight(excelSheet, row, imageRowHeight)
}
