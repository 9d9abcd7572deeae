package web

import (
	"net/http"
)

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, deps APIV1Deps) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(deps)))
}

// RegisterFrames serves the latest composed frame as PNG.
func RegisterFrames(mux *http.ServeMux, host *FrameHost) {
	mux.Handle("/frame.png", FrameHandler(host))
}

// RegisterUI serves either embedded UI assets or a directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux:
// - /api/v1/* for the API
// - /frame.png for the latest frame
// - / for the preview page
func NewDefaultMux(staticDir string, deps APIV1Deps) (*http.ServeMux, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	RegisterAPIV1(mux, deps)
	RegisterFrames(mux, deps.Host)
	RegisterUI(mux, staticDir)
	return mux, nil
}
