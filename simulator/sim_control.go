package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rook-computer/starfield/internal/app"
	"github.com/rook-computer/starfield/internal/clock"
)

// SimControl lets the simulator drive the animation by hand: manual ticks,
// including out-of-order ones, and a remote exit.
type SimControl struct {
	app *app.App
}

func NewSimControl(a *app.App) *SimControl {
	return &SimControl{app: a}
}

type simTickRequest struct {
	// OffsetMs is added to the current animation time. Negative values
	// are rejected.
	OffsetMs int64 `json:"offsetMs"`
}

type simCounts struct {
	Accepted uint64 `json:"accepted"`
	Rejected uint64 `json:"rejected"`
	Ticks    uint64 `json:"ticks"`
	Elapsed  string `json:"elapsed"`
	Skew     string `json:"skew"`
}

// Tick jumps the animation forward by offset. The running driver is
// skewed by the same amount so its own ticks keep being accepted.
func (c *SimControl) Tick(offset time.Duration) error {
	return c.app.Driver.Skew(offset)
}

func (c *SimControl) Counts() simCounts {
	accepted, rejected := c.app.Driver.Counts()
	snap := c.app.Store.Snapshot()
	return simCounts{Accepted: accepted, Rejected: rejected, Ticks: snap.Ticks, Elapsed: snap.Elapsed().String(), Skew: c.app.Driver.Offset().String()}
}

func registerSimEndpoints(mux *http.ServeMux, control *SimControl) {
	mux.HandleFunc("/sim/tick", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var req simTickRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, 1<<10)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if err := control.Tick(time.Duration(req.OffsetMs) * time.Millisecond); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, clock.ErrInvalidTimestamp) {
				status = http.StatusConflict
			}
			writeSimError(w, status, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, control.Counts())
	})

	mux.HandleFunc("/sim/counts", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, control.Counts())
	})

	mux.HandleFunc("/sim/exit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeSimError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true})
		control.app.Exit(nil)
	})
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}
