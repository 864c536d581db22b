package crawler

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/mvp3/tablegen/internal/domain"
)

// Mock returns synthetic records without touching the network. Values
// are derived from the URL so repeated runs produce identical output.
type Mock struct{}

func NewMock() *Mock { return &Mock{} }

func (m *Mock) Crawl(_ context.Context, url string) ([]domain.ProductRecord, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	sum := h.Sum32()

	price := fmt.Sprintf("%.2f", 5+float64(sum%5000)/100)
	moq := int(sum%100) + 10

	return []domain.ProductRecord{{
		Name:        "Product from " + url,
		ImageURL:    "https://via.placeholder.com/300.png?text=Image",
		Price:       price,
		MOQ:         moq,
		Description: "This is a mocked description for demonstration.",
		Params:      map[string]string{"color": "Black", "material": "ABS", "size": "10x10x5cm"},
		ProductURL:  url,
	}}, nil
}
