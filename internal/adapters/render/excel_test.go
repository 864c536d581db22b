package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mvp3/tablegen/internal/domain"
)

type stubFetcher struct {
	data []byte
	fail bool
}

func (f *stubFetcher) Fetch(_ context.Context, uri string) ([]byte, error) {
	if f.fail {
		return nil, fmt.Errorf("%w: timeout fetching %s", domain.ErrFetch, uri)
	}
	return f.data, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func renderExcel(t *testing.T, r *Excel, table domain.Table) [][]string {
	t.Helper()
	var buf bytes.Buffer
	if err := r.Render(context.Background(), &buf, table); err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open rendered workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Table")
	if err != nil {
		t.Fatalf("get rows: %v", err)
	}
	return rows
}

func TestExcelHeaderRowMatchesHeaders(t *testing.T) {
	r := NewExcel(nil)
	table := domain.Table{
		Fields:  []string{domain.FieldName, domain.FieldPrice},
		Headers: []string{"Name", "Price"},
		Records: []domain.ProjectedRecord{
			{domain.FieldName: "Widget", domain.FieldPrice: "9.99"},
		},
	}

	rows := renderExcel(t, r, table)
	if len(rows) != 2 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0][0] != "Name" || rows[0][1] != "Price" {
		t.Fatalf("header row = %v", rows[0])
	}
	if rows[1][0] != "Widget" || rows[1][1] != "9.99" {
		t.Fatalf("data row = %v", rows[1])
	}
}

func TestExcelImageColumnPrefix(t *testing.T) {
	r := NewExcel(&stubFetcher{data: tinyPNG(t)})
	table := domain.Table{
		Fields:  []string{domain.FieldName, domain.FieldImageURL, domain.FieldPrice},
		Headers: []string{"Name", "Image", "Price"},
		Records: []domain.ProjectedRecord{
			{domain.FieldName: "Widget", domain.FieldImageURL: "http://img.test/w.png", domain.FieldPrice: "9.99"},
		},
	}

	rows := renderExcel(t, r, table)
	if rows[0][0] != "image" || rows[0][1] != "Name" || rows[0][2] != "Image" || rows[0][3] != "Price" {
		t.Fatalf("header row = %v", rows[0])
	}
	// image column and imageUrl column carry no text
	if len(rows[1]) > 0 && rows[1][0] != "" {
		t.Fatalf("image cell = %q", rows[1][0])
	}
	if rows[1][1] != "Widget" || rows[1][3] != "9.99" {
		t.Fatalf("data row = %v", rows[1])
	}
}

func TestExcelImageFetchFailureIsNonFatal(t *testing.T) {
	r := NewExcel(&stubFetcher{fail: true})
	table := domain.Table{
		Fields:  []string{domain.FieldName, domain.FieldImageURL},
		Headers: []string{"Name", "Image"},
		Records: []domain.ProjectedRecord{
			{domain.FieldName: "First", domain.FieldImageURL: "http://img.test/broken.png"},
			{domain.FieldName: "Second", domain.FieldImageURL: "http://img.test/broken2.png"},
		},
	}

	rows := renderExcel(t, r, table)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}
	if rows[1][1] != "First" || rows[2][1] != "Second" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestExcelRowOrderAndEmptyCoercion(t *testing.T) {
	r := NewExcel(nil)
	var records []domain.ProjectedRecord
	for i := 0; i < 25; i++ {
		rec := domain.ProjectedRecord{domain.FieldName: fmt.Sprintf("p%02d", i)}
		if i%2 == 0 {
			rec[domain.FieldPrice] = "1.00"
		} else {
			rec[domain.FieldPrice] = ""
		}
		records = append(records, rec)
	}
	table := domain.Table{
		Fields:  []string{domain.FieldName, domain.FieldPrice},
		Headers: []string{"Name", "Price"},
		Records: records,
	}

	rows := renderExcel(t, r, table)
	if len(rows) != 26 {
		t.Fatalf("got %d rows", len(rows))
	}
	for i := 0; i < 25; i++ {
		if rows[i+1][0] != fmt.Sprintf("p%02d", i) {
			t.Fatalf("row %d out of order: %v", i, rows[i+1])
		}
	}
}
