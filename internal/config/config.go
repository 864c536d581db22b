package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	BaseURL      string
	FilesDir     string
	Crawler      string // "mock" or "html"
	Translator   string // "dict" or "openai"
	OpenAIAPIKey string

	FetchTimeout         time.Duration
	CrawlConcurrency     int
	TranslateConcurrency int
	PDFColumns           int
	PDFFontPath          string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getenv("PORT", "8080"),
		BaseURL:              getenv("BASE_URL", "http://localhost:8080"),
		FilesDir:             getenv("FILES_DIR", "files"),
		Crawler:              getenv("CRAWLER", "mock"),
		Translator:           getenv("TRANSLATOR", "dict"),
		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		FetchTimeout:         10 * time.Second,
		CrawlConcurrency:     4,
		TranslateConcurrency: 8,
		PDFColumns:           3,
		PDFFontPath:          os.Getenv("PDF_FONT_PATH"),
	}

	if raw := os.Getenv("FETCH_TIMEOUT_SECONDS"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			return nil, fmt.Errorf("invalid FETCH_TIMEOUT_SECONDS %q", raw)
		}
		cfg.FetchTimeout = time.Duration(secs) * time.Second
	}
	if raw := os.Getenv("CRAWL_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid CRAWL_CONCURRENCY %q", raw)
		}
		cfg.CrawlConcurrency = n
	}
	if raw := os.Getenv("TRANSLATE_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid TRANSLATE_CONCURRENCY %q", raw)
		}
		cfg.TranslateConcurrency = n
	}
	if raw := os.Getenv("PDF_COLUMNS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid PDF_COLUMNS %q", raw)
		}
		cfg.PDFColumns = n
	}

	switch cfg.Crawler {
	case "mock", "html":
	default:
		return nil, fmt.Errorf("unknown CRAWLER %q", cfg.Crawler)
	}
	switch cfg.Translator {
	case "dict":
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("TRANSLATOR=openai requires OPENAI_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unknown TRANSLATOR %q", cfg.Translator)
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
