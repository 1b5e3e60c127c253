package controllers

import (
	"net/http"
	"strings"

	"github.com/mkrishnan-dev/orderhub-backend/api/middleware"
	"github.com/mkrishnan-dev/orderhub-backend/api/responses"
	"github.com/mkrishnan-dev/orderhub-backend/api/validators"
	"github.com/mkrishnan-dev/orderhub-backend/internal/orders"
	pkgerrors "github.com/mkrishnan-dev/orderhub-backend/pkg/errors"
	"github.com/mkrishnan-dev/orderhub-backend/pkg/logger"
)

// SendMessageRequest asks for a WhatsApp push to one supplier. With no
// message the service sends the open-order snapshot instead.
type SendMessageRequest struct {
	StoreName    string `json:"store_name,omitempty"`
	SupplierCode string `json:"supplier_code,omitempty"`
	Message      string `json:"message,omitempty"`
}

func SendWhatsAppMessage(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var body SendMessageRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		supplierCode, err := resolveSupplierCode(r, body.SupplierCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeName := strings.TrimSpace(body.StoreName)
		if storeName == "" {
			storeName = middleware.StoreFromContext(r.Context())
		}

		sent, err := svc.SendSummary(r.Context(), storeName, supplierCode, body.Message)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.Write(w, http.StatusOK, map[string]bool{"success": sent})
	}
}
