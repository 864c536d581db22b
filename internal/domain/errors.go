package domain

import "errors"

var (
	// ErrInvalidRequest marks malformed input; surfaced as 400.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrFetch marks ingestion or image network failure. Fatal at the
	// ingestion level, swallowed per image inside renderers.
	ErrFetch = errors.New("fetch failed")
	// ErrRender marks a renderer or disk failure.
	ErrRender = errors.New("render failed")
	// ErrTranslation marks a translator failure on headers.
	ErrTranslation = errors.New("translation failed")
)
