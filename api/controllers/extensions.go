package controllers

import (
	"fmt"
	"net/http"

	"github.com/tldpricer/tldpricer-backend/api/responses"
	"github.com/tldpricer/tldpricer-backend/api/validators"
	"github.com/tldpricer/tldpricer-backend/internal/extensions"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
)

type extensionListResponse struct {
	Type         string                    `json:"type"`
	Extensions   []extensions.ExtensionDTO `json:"extensions"`
	TotalResults int                       `json:"totalResults"`
	Message      string                    `json:"message"`
}

type extensionDetailResponse struct {
	Type         string                       `json:"type"`
	Extension    *extensions.ExtensionDTO     `json:"extension"`
	Prices       []extensions.HistoryPriceDTO `json:"prices"`
	TotalResults int                          `json:"totalResults"`
	Message      string                       `json:"message"`
}

// GetExtensions serves both shapes of the extensions endpoint. With a
// name parameter it returns the extension and its full price history;
// without one it returns the most recently added extensions. A name
// that matches nothing is a normal result, not an error.
func GetExtensions(svc extensions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "extensions service unavailable"))
			return
		}

		name := validators.QueryString(r, "name")
		if name == "" {
			list, err := svc.Latest(r.Context())
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteJSON(w, http.StatusOK, extensionListResponse{
				Type:         "extensions",
				Extensions:   list,
				TotalResults: len(list),
				Message:      fmt.Sprintf("Found %d latest extensions", len(list)),
			})
			return
		}

		detail, err := svc.GetByName(r.Context(), name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		message := fmt.Sprintf("Found %d price records", len(detail.Prices))
		if detail.Extension == nil {
			message = fmt.Sprintf("No extension found for %q", name)
		}
		responses.WriteJSON(w, http.StatusOK, extensionDetailResponse{
			Type:         "extension",
			Extension:    detail.Extension,
			Prices:       detail.Prices,
			TotalResults: len(detail.Prices),
			Message:      message,
		})
	}
}
