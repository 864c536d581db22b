package domain

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatExcel Format = "excel"
	FormatPDF   Format = "pdf"
)

func (f Format) Ext() string {
	if f == FormatPDF {
		return ".pdf"
	}
	return ".xlsx"
}

// ParseFormats splits the wire value ("excel", "pdf", "excel,pdf") into
// the ordered format set. Unknown tokens and empty sets are rejected.
func ParseFormats(raw string) ([]Format, error) {
	seen := map[Format]bool{}
	var out []Format
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		f := Format(tok)
		if f != FormatExcel && f != FormatPDF {
			return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, tok)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidRequest, raw)
	}
	return out, nil
}

// GenerationRequest is the validated tablegen input. Fields keeps caller
// order; it decides column and card layout order downstream.
type GenerationRequest struct {
	URLs    []string
	Fields  []string
	Lang    string
	Formats []Format
}

func (g *GenerationRequest) Validate() error {
	if len(g.URLs) == 0 {
		return fmt.Errorf("%w: urls required", ErrInvalidRequest)
	}
	if len(g.Formats) == 0 {
		return fmt.Errorf("%w: format required", ErrInvalidRequest)
	}
	if len(g.Fields) == 0 {
		g.Fields = append([]string(nil), KnownFields...)
	}
	for _, f := range g.Fields {
		if !IsKnownField(f) {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidRequest, f)
		}
	}
	if g.Lang == "" {
		g.Lang = "en"
	}
	return nil
}

// Table is the shared renderer input: the requested fields, their
// translated display headers (1:1, order-preserving), and the projected
// records in source order.
type Table struct {
	Fields  []string
	Headers []string
	Records []ProjectedRecord
}

// HasImage reports whether the caller asked for the image column.
func (t Table) HasImage() bool {
	for _, f := range t.Fields {
		if f == FieldImageURL {
			return true
		}
	}
	return false
}

// Artifact is one rendered output file, already published under the
// files directory.
type Artifact struct {
	Name      string
	URL       string
	SizeBytes int64
}

// SizeKB formats the artifact size the way the API reports it.
func (a Artifact) SizeKB() string {
	return fmt.Sprintf("%.1f KB", float64(a.SizeBytes)/1024)
}

// GenerationResult holds one artifact per requested format that
// succeeded. Formats that failed are simply absent.
type GenerationResult struct {
	Excel *Artifact
	PDF   *Artifact
}

func (r *GenerationResult) Empty() bool { return r.Excel == nil && r.PDF == nil }
