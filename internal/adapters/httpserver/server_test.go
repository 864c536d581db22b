package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mvp3/tablegen/internal/adapters/render"
	"github.com/mvp3/tablegen/internal/adapters/storage/localfs"
	"github.com/mvp3/tablegen/internal/adapters/translate"
	"github.com/mvp3/tablegen/internal/domain"
	"github.com/mvp3/tablegen/internal/usecase"
)

type widgetCrawler struct{}

func (widgetCrawler) Crawl(_ context.Context, url string) ([]domain.ProductRecord, error) {
	return []domain.ProductRecord{{Name: "Widget", Price: "9.99", ProductURL: url}}, nil
}

func newTestServer(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	store := localfs.New(dir)
	reports := &usecase.ReportUC{
		Crawler:   widgetCrawler{},
		Projector: &usecase.Projector{Translator: translate.NewDict(), Concurrency: 4},
		Renderers: map[domain.Format]domain.Renderer{
			domain.FormatExcel: render.NewExcel(nil),
			domain.FormatPDF:   render.NewPDF(nil, 3, ""),
		},
		Store:            store,
		BaseURL:          "http://api.test",
		CrawlConcurrency: 2,
		Now:              func() time.Time { return time.UnixMilli(1700000000000) },
	}
	return New(reports, store, dir, "http://api.test", ""), dir
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestTablegenEmptyURLs(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/tablegen", `{"urls":[],"fields":["name"],"lang":"en","format":"excel"}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	msg := body["error"].(map[string]any)["message"].(string)
	if !strings.Contains(msg, "urls") {
		t.Fatalf("message = %q", msg)
	}
}

func TestTablegenUnsupportedFormat(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/tablegen", `{"urls":["http://a.test/p1"],"fields":["name"],"lang":"en","format":"csv"}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	msg := body["error"].(map[string]any)["message"].(string)
	if !strings.Contains(msg, "unsupported format") {
		t.Fatalf("message = %q", msg)
	}
}

func TestTablegenExcelOnly(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/tablegen", `{"urls":["http://a.test/p1"],"fields":["name","price"],"lang":"en","format":"excel"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if _, ok := body["excel"]; !ok {
		t.Fatalf("no excel key: %v", body)
	}
	if _, ok := body["pdf"]; ok {
		t.Fatalf("unrequested pdf key present: %v", body)
	}
	size, _ := body["excelSize"].(string)
	if !strings.HasSuffix(size, "KB") {
		t.Fatalf("excelSize = %q", size)
	}
}

func TestTablegenBothFormatsAndServing(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/tablegen", `{"urls":["http://a.test/p1"],"fields":["name","price"],"lang":"en","format":"excel,pdf"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	for _, key := range []string{"excel", "pdf", "excelSize", "pdfSize"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("missing %s: %v", key, body)
		}
	}

	// artifact must be downloadable through /files/
	pdfURL := body["pdf"].(string)
	name := pdfURL[strings.LastIndex(pdfURL, "/")+1:]
	get := httptest.NewRequest(http.MethodGet, "/files/"+name, nil)
	got := httptest.NewRecorder()
	h.ServeHTTP(got, get)
	if got.Code != 200 {
		t.Fatalf("file status = %d", got.Code)
	}
	if !bytes.HasPrefix(got.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("served file is not a PDF")
	}
}

func TestTablegenMethodGuard(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/api/tablegen", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 405 {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHello(t *testing.T) {
	h, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/api/hello", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("no request id header")
	}
}

func TestSimplePDFValidation(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/pdf", `{"title":"only title"}`)
	if rec.Code != 400 {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSimplePDFDownload(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/pdf", `{"title":"Report","content":"hello world"}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("content-type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatal("body is not a PDF")
	}
}

func TestCompareExport(t *testing.T) {
	h, _ := newTestServer(t)
	rec := postJSON(t, h, "/v1/api/compare/export-pdf",
		`{"title":"Quotes","items":[{"vendor":"Acme","sku":"W-1","name":"Widget","price":"9.99"}]}`)
	if rec.Code != 200 {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	url, _ := body["pdf"].(string)
	if !strings.Contains(url, "/files/compare_") {
		t.Fatalf("pdf url = %q", url)
	}
}
