package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"stockdb/pkg/balance"
	"stockdb/pkg/catalog"
	"stockdb/pkg/ledger"
	"stockdb/pkg/models"
	"stockdb/pkg/snapshot"
	"stockdb/pkg/utils"
)

// RegisterBalances mounts the derived balance view routes.
func (a *API) RegisterBalances(r *mux.Router) {
	r.HandleFunc("/v1/balances", a.handleBalances).Methods(http.MethodGet)
	r.HandleFunc("/v1/balances/summary", a.handleBalanceSummary).Methods(http.MethodGet)
}

// reconciled loads the master catalog and ledger and projects the balance
// view. A missing snapshot is surfaced as ErrEmptySnapshot so handlers can
// answer "load the catalog first" instead of an empty table.
func (a *API) reconciled(f balance.Filters) ([]models.BalanceRow, error) {
	data, err := a.snaps.Read(DefaultSnapshotKey)
	if err != nil {
		return nil, err
	}
	rows, err := catalog.Decode(data)
	if err != nil {
		return nil, err
	}
	movements, err := ledger.All()
	if err != nil {
		return nil, err
	}
	return f.Apply(balance.Reconcile(rows, movements)), nil
}

func filtersFromQuery(r *http.Request) balance.Filters {
	q := r.URL.Query()
	return balance.Filters{
		Item:        q.Get("item"),
		Site:        q.Get("site"),
		CostElement: q.Get("cost_element"),
		Lot:         q.Get("lot"),
	}
}

func (a *API) handleBalances(w http.ResponseWriter, r *http.Request) {
	rows, err := a.reconciled(filtersFromQuery(r))
	if err != nil {
		writeBalanceError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Balances []models.BalanceRow `json:"balances"`
	}{Balances: rows})
}

func (a *API) handleBalanceSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := a.reconciled(filtersFromQuery(r))
	if err != nil {
		writeBalanceError(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, balance.Summarize(rows))
}

func writeBalanceError(w http.ResponseWriter, err error) {
	if errors.Is(err, snapshot.ErrEmptySnapshot) {
		utils.JSONError(w, http.StatusNotFound, "empty_snapshot")
		return
	}
	utils.JSONError(w, http.StatusBadGateway, "store_error: "+err.Error())
}
