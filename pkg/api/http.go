// Package api is the collaborator-facing HTTP surface over the snapshot
// store, the movement ledger and the reconciliation engine. It is a thin
// shell: all correctness lives in the packages it calls.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stockdb/pkg/ledger"
	"stockdb/pkg/snapshot"
	"stockdb/pkg/store"
	"stockdb/pkg/utils"
)

// API wires the HTTP routes to an injected snapshot store.
type API struct {
	snaps   *snapshot.Store
	limiter *limiterPool
}

// New returns an API over the given snapshot store. rps/burst configure
// per-client write rate limiting; rps <= 0 disables it.
func New(snaps *snapshot.Store, rps float64, burst int) *API {
	a := &API{snaps: snaps}
	if rps > 0 {
		a.limiter = &limiterPool{rps: rps, burst: burst}
	}
	return a
}

// Handler builds the router with all routes registered.
func (a *API) Handler() http.Handler {
	r := mux.NewRouter()
	a.RegisterSnapshots(r)
	a.RegisterMovements(r)
	a.RegisterBalances(r)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/statusz", a.handleStatus).Methods(http.MethodGet)
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleStatus reports backend connectivity distinctly from the empty
// snapshot state, so callers can tell "prompt to load data" apart from "the
// store is down".
func (a *API) handleStatus(w http.ResponseWriter, r *http.Request) {
	type status struct {
		Store     string `json:"store"`
		Snapshot  string `json:"snapshot"`
		Chunks    int    `json:"chunks"`
		Movements int    `json:"movements"`
	}
	s := status{Store: "ok", Snapshot: "empty"}
	if !store.Ready() {
		s.Store = "unavailable"
		_ = utils.JSONWrite(w, http.StatusServiceUnavailable, s)
		return
	}
	if n, err := a.snaps.ChunkCount(DefaultSnapshotKey); err == nil && n > 0 {
		s.Snapshot = "loaded"
		s.Chunks = n
	}
	if n, err := ledger.Count(); err == nil {
		s.Movements = n
	}
	_ = utils.JSONWrite(w, http.StatusOK, s)
}
