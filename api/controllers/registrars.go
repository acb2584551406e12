package controllers

import (
	"fmt"
	"net/http"

	"github.com/tldpricer/tldpricer-backend/api/responses"
	"github.com/tldpricer/tldpricer-backend/internal/registrars"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
	"github.com/tldpricer/tldpricer-backend/pkg/logger"
)

type registrarListResponse struct {
	Type         string                    `json:"type"`
	Registrars   []registrars.RegistrarDTO `json:"registrars"`
	TotalResults int                       `json:"totalResults"`
	Message      string                    `json:"message"`
}

// GetRegistrars returns the most recently added registrars.
func GetRegistrars(svc registrars.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "registrars service unavailable"))
			return
		}

		list, err := svc.Latest(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, registrarListResponse{
			Type:         "registrars",
			Registrars:   list,
			TotalResults: len(list),
			Message:      fmt.Sprintf("Found %d latest registrars", len(list)),
		})
	}
}
