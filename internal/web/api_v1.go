package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rook-computer/starfield/internal/clock"
	"github.com/rook-computer/starfield/internal/render"
	"github.com/rook-computer/starfield/internal/state"
)

type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

type canvasBody struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type sceneResponse struct {
	Phase          string            `json:"phase"`
	Stars          int               `json:"stars"`
	Ticks          uint64            `json:"ticks"`
	ElapsedSeconds float64           `json:"elapsedSeconds"`
	Angle          float32           `json:"angle"`
	AngleDegrees   float64           `json:"angleDegrees"`
	Canvas         canvasBody        `json:"canvas"`
	Frames         uint64            `json:"frames"`
	Backdrop       render.CacheStats `json:"backdrop"`
	System         render.CacheStats `json:"system"`
}

type starResponse struct {
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
	Size float32 `json:"size"`
}

// SceneStore is the read side of the animation state.
type SceneStore interface {
	Snapshot() state.State
}

// SceneCaches exposes the layer caches of the scene.
type SceneCaches interface {
	BackdropStats() render.CacheStats
	SystemStats() render.CacheStats
	InvalidateAll()
}

type APIV1Deps struct {
	Store SceneStore
	Scene SceneCaches
	Clock clock.Clock
	Host  *FrameHost
}

func (d APIV1Deps) validate() error {
	if d.Store == nil || d.Scene == nil || d.Host == nil {
		return errors.New("api v1: store, scene and host are required")
	}
	return nil
}

func apiV1Router(deps APIV1Deps) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/scene", func(w http.ResponseWriter, r *http.Request) { handleScene(w, r, deps) })
	mux.HandleFunc("/scene/stars", func(w http.ResponseWriter, r *http.Request) { handleStars(w, r, deps) })
	mux.HandleFunc("/scene/invalidate", func(w http.ResponseWriter, r *http.Request) { handleInvalidate(w, r, deps) })
	mux.HandleFunc("/canvas", func(w http.ResponseWriter, r *http.Request) { handleCanvas(w, r, deps) })
	return mux
}

func handleScene(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	snap := deps.Store.Snapshot()
	angle, err := deps.Clock.Angle(snap.Start, snap.Current)
	if err != nil {
		writeAPIError(w, http.StatusInternalServerError, "invalid_timestamp", err.Error())
		return
	}
	bounds := deps.Host.Bounds()
	_, _, frames := deps.Host.Latest()
	writeJSON(w, http.StatusOK, sceneResponse{
		Phase:          snap.Phase.String(),
		Stars:          len(snap.Stars),
		Ticks:          snap.Ticks,
		ElapsedSeconds: snap.Elapsed().Seconds(),
		Angle:          angle,
		AngleDegrees:   clock.Degrees(clock.Normalize(angle)),
		Canvas:         canvasBody{Width: bounds.Dx(), Height: bounds.Dy()},
		Frames:         frames,
		Backdrop:       deps.Scene.BackdropStats(),
		System:         deps.Scene.SystemStats(),
	})
}

func handleStars(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodGet {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	stars := deps.Store.Snapshot().Stars
	out := make([]starResponse, 0, len(stars))
	for _, s := range stars {
		out = append(out, starResponse{X: s.Position.X, Y: s.Position.Y, Size: s.Size})
	}
	writeJSON(w, http.StatusOK, out)
}

func handleInvalidate(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	if r.Method != http.MethodPost {
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
		return
	}
	deps.Scene.InvalidateAll()
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func handleCanvas(w http.ResponseWriter, r *http.Request, deps APIV1Deps) {
	switch r.Method {
	case http.MethodGet:
		bounds := deps.Host.Bounds()
		writeJSON(w, http.StatusOK, canvasBody{Width: bounds.Dx(), Height: bounds.Dy()})
	case http.MethodPut, http.MethodPost:
		var body canvasBody
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&body); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_body", err.Error())
			return
		}
		if err := deps.Host.Resize(body.Width, body.Height); err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid_canvas", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, body)
	default:
		writeAPIError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
