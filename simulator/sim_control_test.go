package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rook-computer/starfield/internal/app"
	"github.com/rook-computer/starfield/internal/config"
)

func newSimMux(t *testing.T) (*http.ServeMux, *app.App) {
	t.Helper()
	cfg := config.Config{
		Width: 64, Height: 48, Stars: 5, Seed: 3,
		TickInterval: 10 * time.Millisecond, RotationPeriod: time.Minute, FPS: 30,
		Foreground: "#ffffff", Background: "#000000",
	}
	a, err := app.New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	registerSimEndpoints(mux, NewSimControl(a))
	return mux, a
}

func post(mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestSimTick(t *testing.T) {
	mux, a := newSimMux(t)

	if rec := post(mux, "/sim/tick", `{"offsetMs":1500}`); rec.Code != http.StatusOK {
		t.Fatalf("forward tick status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := a.Store.Snapshot().Elapsed(); got != 1500*time.Millisecond {
		t.Fatalf("Elapsed() = %v, want 1.5s", got)
	}

	if rec := post(mux, "/sim/tick", `{"offsetMs":-200}`); rec.Code != http.StatusConflict {
		t.Fatalf("backward tick status = %d, want 409", rec.Code)
	}
	accepted, rejected := a.Driver.Counts()
	if accepted != 1 || rejected != 1 {
		t.Fatalf("Counts() = %d, %d; want 1, 1", accepted, rejected)
	}
	if got := a.Store.Snapshot().Elapsed(); got != 1500*time.Millisecond {
		t.Fatalf("rejected tick changed state: Elapsed() = %v", got)
	}

	if rec := post(mux, "/sim/tick", `nope`); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body status = %d, want 400", rec.Code)
	}
}

func TestSimTickWhileDriverRuns(t *testing.T) {
	mux, a := newSimMux(t)
	a.Driver.Interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Driver.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	waitForTicks(t, a, 3)
	if rec := post(mux, "/sim/tick", `{"offsetMs":2000}`); rec.Code != http.StatusOK {
		t.Fatalf("forward tick status = %d: %s", rec.Code, rec.Body.String())
	}
	jumped := a.Store.Snapshot()
	accepted, _ := a.Driver.Counts()

	waitForTicks(t, a, accepted+5)
	after := a.Store.Snapshot()
	if !after.Current.After(jumped.Current) {
		t.Fatalf("Current stuck at %v after the jump", jumped.Current)
	}
	if after.Elapsed() < 2*time.Second {
		t.Fatalf("Elapsed() = %v, want at least 2s", after.Elapsed())
	}
	if _, rejected := a.Driver.Counts(); rejected != 0 {
		t.Fatalf("driver rejected %d ticks after the jump", rejected)
	}
}

func waitForTicks(t *testing.T, a *app.App, n uint64) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		if accepted, _ := a.Driver.Counts(); accepted >= n {
			return
		}
		if time.Now().After(deadline) {
			accepted, rejected := a.Driver.Counts()
			t.Fatalf("waiting for %d ticks: accepted=%d rejected=%d", n, accepted, rejected)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestSimCountsMethod(t *testing.T) {
	mux, _ := newSimMux(t)
	if rec := post(mux, "/sim/counts", ""); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestDisplayAddr(t *testing.T) {
	tests := map[string]string{
		":8080":          "127.0.0.1:8080",
		"[::]:9000":      "127.0.0.1:9000",
		"10.0.0.2:80":    "10.0.0.2:80",
		"not-an-address": "not-an-address",
	}
	for in, want := range tests {
		if got := displayAddr(in); got != want {
			t.Errorf("displayAddr(%q) = %q, want %q", in, got, want)
		}
	}
}
