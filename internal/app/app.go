package app

import (
	"net/http"

	"github.com/mvp3/tablegen/internal/adapters/crawler"
	"github.com/mvp3/tablegen/internal/adapters/httpserver"
	"github.com/mvp3/tablegen/internal/adapters/render"
	"github.com/mvp3/tablegen/internal/adapters/storage/localfs"
	"github.com/mvp3/tablegen/internal/adapters/translate"
	"github.com/mvp3/tablegen/internal/config"
	"github.com/mvp3/tablegen/internal/domain"
	"github.com/mvp3/tablegen/internal/usecase"
)

type App struct {
	Config  *config.Config
	Reports *usecase.ReportUC
	Store   *localfs.Store
}

// NewApp composes the collaborators selected by config into the report
// pipeline.
func NewApp(cfg *config.Config) (*App, error) {
	store := localfs.New(cfg.FilesDir)

	var crawl domain.Crawler
	switch cfg.Crawler {
	case "html":
		crawl = crawler.NewHTML(cfg.FetchTimeout)
	default:
		crawl = crawler.NewMock()
	}

	var translator domain.Translator
	switch cfg.Translator {
	case "openai":
		translator = translate.NewOpenAI(cfg.OpenAIAPIKey)
	default:
		translator = translate.NewDict()
	}

	images := render.NewFetcher(cfg.FetchTimeout)

	reports := &usecase.ReportUC{
		Crawler: crawl,
		Projector: &usecase.Projector{
			Translator:  translator,
			Concurrency: cfg.TranslateConcurrency,
		},
		Renderers: map[domain.Format]domain.Renderer{
			domain.FormatExcel: render.NewExcel(images),
			domain.FormatPDF:   render.NewPDF(images, cfg.PDFColumns, cfg.PDFFontPath),
		},
		Store:            store,
		BaseURL:          cfg.BaseURL,
		CrawlConcurrency: cfg.CrawlConcurrency,
	}

	return &App{Config: cfg, Reports: reports, Store: store}, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Reports, a.Store, a.Config.FilesDir, a.Config.BaseURL, a.Config.PDFFontPath)
}
