package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mvp3/tablegen/internal/adapters/render"
	"github.com/mvp3/tablegen/internal/domain"
	"github.com/mvp3/tablegen/internal/usecase"
)

type Server struct {
	mux      *http.ServeMux
	reports  *usecase.ReportUC
	store    domain.ArtifactStore
	filesDir string
	baseURL  string
	fontPath string
}

func New(reports *usecase.ReportUC, store domain.ArtifactStore, filesDir, baseURL, fontPath string) http.Handler {
	s := &Server{
		mux:      http.NewServeMux(),
		reports:  reports,
		store:    store,
		filesDir: filesDir,
		baseURL:  strings.TrimRight(baseURL, "/"),
		fontPath: fontPath,
	}
	s.routes()
	return Chain(s.mux,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/files/", http.StripPrefix("/files/", http.FileServer(http.Dir(s.filesDir))))

	s.mux.HandleFunc("/v1/api/hello", s.handleHello)
	s.mux.HandleFunc("/v1/api/tablegen", s.handleTablegen)
	s.mux.HandleFunc("/v1/api/pdf", s.handleSimplePDF)
	s.mux.HandleFunc("/v1/api/compare/export-pdf", s.handleCompareExport)
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]any{"message": "Hello from backend"})
}

type tablegenRequest struct {
	URLs   []string `json:"urls"`
	Fields []string `json:"fields"`
	Lang   string   `json:"lang"`
	Format string   `json:"format"`
}

func (s *Server) handleTablegen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}

	var body tablegenRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if len(body.URLs) == 0 {
		writeError(w, 400, "urls required")
		return
	}
	formats, err := domain.ParseFormats(body.Format)
	if err != nil {
		writeError(w, 400, trimInvalid(err))
		return
	}

	req := &domain.GenerationRequest{
		URLs:    body.URLs,
		Fields:  body.Fields,
		Lang:    body.Lang,
		Formats: formats,
	}
	result, err := s.reports.Generate(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeError(w, 400, trimInvalid(err))
			return
		}
		log.Error().Err(err).Msg("generation failed")
		writeError(w, 500, "server error")
		return
	}

	resp := map[string]any{}
	if result.Excel != nil {
		resp["excel"] = result.Excel.URL
		resp["excelSize"] = result.Excel.SizeKB()
	}
	if result.PDF != nil {
		resp["pdf"] = result.PDF.URL
		resp["pdfSize"] = result.PDF.SizeKB()
	}
	writeJSON(w, 200, resp)
}

type simplePDFRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (s *Server) handleSimplePDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var body simplePDFRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if body.Title == "" || body.Content == "" {
		writeError(w, 400, "title and content are required")
		return
	}

	var buf bytes.Buffer
	if err := render.SimpleDoc(&buf, body.Title, body.Content, s.fontPath); err != nil {
		log.Error().Err(err).Msg("simple pdf render failed")
		writeError(w, 500, "server error")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="output.pdf"`)
	w.WriteHeader(200)
	_, _ = w.Write(buf.Bytes())
}

type compareRequest struct {
	Title string               `json:"title"`
	Items []render.CompareItem `json:"items"`
}

func (s *Server) handleCompareExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var body compareRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, 400, "invalid json")
		return
	}
	if body.Title == "" {
		body.Title = "Quote Comparison"
	}

	var buf bytes.Buffer
	if err := render.ComparePDF(&buf, body.Title, body.Items, s.fontPath); err != nil {
		log.Error().Err(err).Msg("compare pdf render failed")
		writeError(w, 500, "export_failed")
		return
	}

	name := fmt.Sprintf("compare_%d.pdf", time.Now().UnixNano()/int64(time.Millisecond))
	aw, err := s.store.Create(name)
	if err == nil {
		_, err = aw.Write(buf.Bytes())
		if cerr := aw.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		log.Error().Err(err).Msg("compare pdf write failed")
		writeError(w, 500, "export_failed")
		return
	}

	writeJSON(w, 200, map[string]any{"pdf": s.baseURL + "/files/" + name})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"error": map[string]any{"message": msg}})
}

// trimInvalid drops the sentinel prefix so callers see "urls required"
// rather than "invalid request: urls required".
func trimInvalid(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrInvalidRequest.Error()+": ")
}
