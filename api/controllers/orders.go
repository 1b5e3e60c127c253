package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/api/responses"
	"github.com/mkrishnan-dev/orderhub-backend/api/validators"
	"github.com/mkrishnan-dev/orderhub-backend/internal/orders"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/pagination"
)

// remarksMaxLen caps the free-text remarks persisted into order files.
const remarksMaxLen = 250

// UpdateOrdersRequest is the batch-edit payload posted by the portal grid.
type UpdateOrdersRequest struct {
	UpdatedData  []orders.Edit `json:"updatedData" validate:"required,min=1,dive"`
	CurrentStore string        `json:"currentStore,omitempty"`
	SupplierCode string        `json:"supplier_code,omitempty"`
}

// UpdateOrdersResponse keeps the response shape the legacy grid parses.
type UpdateOrdersResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message"`
	Summary  []string `json:"summary,omitempty"`
	Notified bool     `json:"notified,omitempty"`
}

// GetOrders lists one page of the caller's order file. The store and supplier
// come from the path when present, falling back to query parameters and then
// the session context.
func GetOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		perPage, err := validators.ParseQueryInt(r, "per_page", pagination.DefaultPerPage, 1, pagination.MaxPerPage)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeName := chi.URLParam(r, "store")
		if storeName == "" {
			storeName = r.URL.Query().Get("storename")
		}
		if storeName == "" {
			storeName = middleware.StoreFromContext(r.Context())
		}

		supplierCode, err := resolveSupplierCode(r, chi.URLParam(r, "supplier"), r.URL.Query().Get("suppliercode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), orders.ListParams{
			StoreName:    strings.TrimSpace(storeName),
			SupplierCode: supplierCode,
			Page:         pagination.Normalize(page, perPage),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.Write(w, http.StatusOK, result)
	}
}

// UpdateOrders applies a batch of quantity/remark edits to the caller's
// order file and reports what changed.
func UpdateOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body UpdateOrdersRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierCode, err := resolveSupplierCode(r, body.SupplierCode, "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		for i := range body.UpdatedData {
			body.UpdatedData[i].Remarks = validators.SanitizeString(body.UpdatedData[i].Remarks, remarksMaxLen)
		}

		storeName := strings.TrimSpace(body.CurrentStore)
		if storeName == "" {
			storeName = middleware.StoreFromContext(r.Context())
		}

		result, err := svc.ApplyUpdates(r.Context(), orders.UpdateParams{
			StoreName:    storeName,
			SupplierCode: supplierCode,
			Edits:        body.UpdatedData,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := "no changes applied"
		if result.Changed {
			message = "orders updated successfully"
		}
		responses.Write(w, http.StatusOK, UpdateOrdersResponse{
			Success:  result.Changed,
			Message:  message,
			Summary:  result.Summary,
			Notified: result.Notified,
		})
	}
}

// resolveSupplierCode picks the supplier for the request, preferring the
// explicit candidates over the session's first code, and rejects codes the
// session does not own.
func resolveSupplierCode(r *http.Request, candidates ...string) (string, error) {
	sessionCodes := middleware.SupplierCodesFromContext(r.Context())

	for _, candidate := range candidates {
		code := strings.TrimSpace(candidate)
		if code == "" {
			continue
		}
		for _, owned := range sessionCodes {
			if strings.EqualFold(owned, code) {
				return owned, nil
			}
		}
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "supplier not allowed for this session")
	}

	if len(sessionCodes) == 0 {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "no supplier codes in session")
	}
	return sessionCodes[0], nil
}
