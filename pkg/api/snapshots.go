package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"stockdb/pkg/chunk"
	"stockdb/pkg/snapshot"
	"stockdb/pkg/utils"
)

// DefaultSnapshotKey names the master catalog snapshot used by the balance
// endpoints.
const DefaultSnapshotKey = "master_catalog"

// maxUploadBytes caps one snapshot upload. Catalogs of tens of thousands
// of rows serialize to a few MB; 64MB leaves ample headroom.
const maxUploadBytes = 64 << 20

// RegisterSnapshots mounts the snapshot lifecycle routes.
func (a *API) RegisterSnapshots(r *mux.Router) {
	r.HandleFunc("/v1/snapshots/{key}", a.limitWrites(a.handleReplaceSnapshot)).Methods(http.MethodPut)
	r.HandleFunc("/v1/snapshots/{key}", a.handleReadSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/v1/snapshots/{key}", a.handleClearSnapshot).Methods(http.MethodDelete)
}

func (a *API) handleReplaceSnapshot(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes+1))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) > maxUploadBytes {
		utils.JSONError(w, http.StatusRequestEntityTooLarge, "snapshot too large")
		return
	}
	if err := a.snaps.Replace(key, body); err != nil {
		if errors.Is(err, chunk.ErrZeroChunkSize) {
			utils.JSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleReadSnapshot(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	data, err := a.snaps.Read(key)
	if err != nil {
		if errors.Is(err, snapshot.ErrEmptySnapshot) {
			utils.JSONError(w, http.StatusNotFound, "empty_snapshot")
			return
		}
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) handleClearSnapshot(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	if err := a.snaps.Clear(key); err != nil {
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
