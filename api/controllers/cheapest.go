package controllers

import (
	"net/http"

	"github.com/tldpricer/tldpricer-backend/api/responses"
	"github.com/tldpricer/tldpricer-backend/api/validators"
	"github.com/tldpricer/tldpricer-backend/internal/pricing"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/pagination"
)

type cheapestQuery struct {
	ExtensionName string `json:"extensionName"`
	SortBy        string `json:"sortBy" validate:"omitempty,oneof=tld registrar price"`
	SortOrder     string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type cheapestFilters struct {
	ExtensionName string `json:"extensionName,omitempty"`
	SortBy        string `json:"sortBy"`
	SortOrder     string `json:"sortOrder"`
}

type cheapestResponse struct {
	Prices     []pricing.PriceRecord `json:"prices"`
	Pagination pagination.Meta       `json:"pagination"`
	Filters    cheapestFilters       `json:"filters"`
	Message    string                `json:"message"`
}

// ListCheapest serves the cheapest-registration listing: at most one
// row per extension, the registrar with the lowest registration price.
func ListCheapest(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		query := cheapestQuery{
			ExtensionName: validators.QueryString(r, "extensionName"),
			SortBy:        validators.QueryString(r, "sortBy"),
			SortOrder:     validators.QueryString(r, "sortOrder"),
		}
		if err := validators.ValidateStruct(query); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListCheapest(r.Context(), pricing.ListCheapestInput{
			ExtensionContains: query.ExtensionName,
			Page:              validators.QueryIntDefault(r, "page", 1),
			Limit:             validators.QueryIntDefault(r, "limit", pagination.DefaultLimit),
			SortBy:            pricing.CheapestSortKey(query.SortBy),
			SortOrder:         pricing.SortOrder(query.SortOrder),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, cheapestResponse{
			Prices:     result.Records,
			Pagination: result.Pagination,
			Filters: cheapestFilters{
				ExtensionName: query.ExtensionName,
				SortBy:        defaultString(query.SortBy, string(pricing.CheapestByTLD)),
				SortOrder:     defaultString(query.SortOrder, string(pricing.SortAsc)),
			},
			Message: listMessage("cheapest price", len(result.Records), result.Pagination),
		})
	}
}
