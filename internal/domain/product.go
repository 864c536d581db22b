package domain

import (
	"sort"
	"strconv"
	"strings"
)

// ProductRecord is one item sourced from a product URL. Records are
// request-scoped: built by a Crawler, read by the projector, discarded
// once the response is out.
type ProductRecord struct {
	Name        string
	ImageURL    string
	Price       string
	MOQ         int
	Description string
	Params      map[string]string
	ProductURL  string
}

// Field names accepted in a FieldSpec.
const (
	FieldName        = "name"
	FieldImageURL    = "imageUrl"
	FieldPrice       = "price"
	FieldMOQ         = "moq_value"
	FieldDescription = "description"
	FieldParams      = "params"
	FieldProductURL  = "productUrl"
)

// KnownFields lists every field a caller may request, in default layout
// order. Used both for validation and as the fallback when a request
// carries no field list.
var KnownFields = []string{
	FieldName, FieldImageURL, FieldPrice, FieldMOQ, FieldDescription, FieldParams, FieldProductURL,
}

func IsKnownField(f string) bool {
	for _, k := range KnownFields {
		if k == f {
			return true
		}
	}
	return false
}

// FieldValue returns the display text for one requested field, always a
// string: fields missing on the record come back "".
func (p ProductRecord) FieldValue(field string) string {
	switch field {
	case FieldName:
		return p.Name
	case FieldImageURL:
		return p.ImageURL
	case FieldPrice:
		return p.Price
	case FieldMOQ:
		if p.MOQ == 0 {
			return ""
		}
		return strconv.Itoa(p.MOQ)
	case FieldDescription:
		return p.Description
	case FieldParams:
		return flattenParams(p.Params)
	case FieldProductURL:
		return p.ProductURL
	}
	return ""
}

// flattenParams renders the attribute map as "k: v; k: v" with keys
// sorted, so the same record always projects to the same cell text.
func flattenParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+params[k])
	}
	return strings.Join(parts, "; ")
}

// ProjectedRecord maps each requested field to its display string. The
// imageUrl entry, when present, keeps the raw URI for embedding rather
// than serving as a text column.
type ProjectedRecord map[string]string

func (r ProjectedRecord) Image() string { return r[FieldImageURL] }
