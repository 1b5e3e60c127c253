package controllers

import (
	"net/http"

	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/api/responses"
	"github.com/mkrishnan-dev/orderhub-backend/internal/orders"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
)

// DashboardResponse is the session context plus per-store order totals the
// portal landing page renders.
type DashboardResponse struct {
	Username      string                `json:"username"`
	SupplierCodes []string              `json:"supplier_codes"`
	StoreName     string                `json:"store_name"`
	Stores        []orders.StoreSummary `json:"stores"`
}

func Dashboard(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		codes := middleware.SupplierCodesFromContext(r.Context())
		if len(codes) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no supplier codes in session"))
			return
		}

		summaries, err := svc.Summary(r.Context(), codes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, DashboardResponse{
			Username:      middleware.UsernameFromContext(r.Context()),
			SupplierCodes: codes,
			StoreName:     middleware.StoreFromContext(r.Context()),
			Stores:        summaries,
		})
	}
}
