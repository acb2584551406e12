package controllers

import (
	"fmt"
	"net/http"

	"github.com/tldpricer/tldpricer-backend/api/responses"
	"github.com/tldpricer/tldpricer-backend/api/validators"
	"github.com/tldpricer/tldpricer-backend/internal/pricing"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
	"github.com/tldpricer/tldpricer-backend/pkg/pagination"
)

type priceListQuery struct {
	Registrar string `json:"registrar"`
	Extension string `json:"extension"`
	SortBy    string `json:"sortBy" validate:"omitempty,oneof=registrar extension price"`
	SortOrder string `json:"sortOrder" validate:"omitempty,oneof=asc desc"`
}

type priceListFilters struct {
	Registrar string `json:"registrar,omitempty"`
	Extension string `json:"extension,omitempty"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
}

type priceListResponse struct {
	Prices     []pricing.PriceRecord `json:"prices"`
	Pagination pagination.Meta       `json:"pagination"`
	Filters    priceListFilters      `json:"filters"`
	Message    string                `json:"message"`
}

// ListPrices serves the current-price listing: one row per
// (registrar, extension) pair, filtered, sorted, and paginated.
func ListPrices(svc pricing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		query := priceListQuery{
			Registrar: validators.QueryString(r, "registrar"),
			Extension: validators.QueryString(r, "extension"),
			SortBy:    validators.QueryString(r, "sortBy"),
			SortOrder: validators.QueryString(r, "sortOrder"),
		}
		if err := validators.ValidateStruct(query); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListPrices(r.Context(), pricing.ListPricesInput{
			RegistrarContains: query.Registrar,
			ExtensionName:     query.Extension,
			Page:              validators.QueryIntDefault(r, "page", 1),
			Limit:             validators.QueryIntDefault(r, "limit", pagination.DefaultLimit),
			SortBy:            pricing.ListSortKey(query.SortBy),
			SortOrder:         pricing.SortOrder(query.SortOrder),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, priceListResponse{
			Prices:     result.Records,
			Pagination: result.Pagination,
			Filters: priceListFilters{
				Registrar: query.Registrar,
				Extension: query.Extension,
				SortBy:    defaultString(query.SortBy, string(pricing.SortByRegistrar)),
				SortOrder: defaultString(query.SortOrder, string(pricing.SortAsc)),
			},
			Message: listMessage("price", len(result.Records), result.Pagination),
		})
	}
}

func listMessage(noun string, count int, meta pagination.Meta) string {
	return fmt.Sprintf("Found %d %s records (page %d of %d)", count, noun, meta.Page, meta.TotalPages)
}

func defaultString(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
