package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"stockdb/pkg/ledger"
	"stockdb/pkg/models"
	"stockdb/pkg/utils"
	"stockdb/pkg/validation"
)

// RegisterMovements mounts the movement ledger routes.
func (a *API) RegisterMovements(r *mux.Router) {
	r.HandleFunc("/v1/movements", a.limitWrites(a.handleRecordMovement)).Methods(http.MethodPost)
	r.HandleFunc("/v1/movements", a.handleListMovements).Methods(http.MethodGet)
	r.HandleFunc("/v1/movements", a.handleResetMovements).Methods(http.MethodDelete)
}

func (a *API) handleRecordMovement(w http.ResponseWriter, r *http.Request) {
	var ev models.MovementEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateMovement(ev); err != nil {
		utils.JSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	ev, err := ledger.Record(ev)
	if err != nil {
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusCreated, ev)
}

func (a *API) handleListMovements(w http.ResponseWriter, r *http.Request) {
	all, err := ledger.All()
	if err != nil {
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Movements []models.MovementEvent `json:"movements"`
	}{Movements: all})
}

func (a *API) handleResetMovements(w http.ResponseWriter, r *http.Request) {
	n, err := ledger.Clear()
	if err != nil {
		utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, map[string]int{"deleted": n})
}
