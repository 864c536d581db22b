package translate

import "context"

// Dict is the stub translator: a per-language lexicon for the short
// strings we actually control (field names), identity for everything
// else. Deterministic, so repeated runs produce identical documents.
type Dict struct{}

func NewDict() *Dict { return &Dict{} }

var lexicons = map[string]map[string]string{
	"en": {
		"name":        "Name",
		"imageUrl":    "Image",
		"price":       "Price",
		"moq_value":   "MOQ",
		"description": "Description",
		"params":      "Parameters",
		"productUrl":  "Product URL",
	},
	"zh": {
		"name":        "名称",
		"imageUrl":    "图片",
		"price":       "价格",
		"moq_value":   "起订量",
		"description": "描述",
		"params":      "参数",
		"productUrl":  "商品链接",
	},
	"es": {
		"name":        "Nombre",
		"imageUrl":    "Imagen",
		"price":       "Precio",
		"moq_value":   "Cantidad mínima",
		"description": "Descripción",
		"params":      "Parámetros",
		"productUrl":  "Enlace",
	},
}

func (d *Dict) Translate(_ context.Context, text, lang string) (string, error) {
	if lex, ok := lexicons[lang]; ok {
		if t, ok := lex[text]; ok {
			return t, nil
		}
	}
	return text, nil
}

func (d *Dict) TranslateBatch(ctx context.Context, texts []string, lang string) ([]string, error) {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i], _ = d.Translate(ctx, t, lang)
	}
	return out, nil
}
