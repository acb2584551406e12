package extensions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
)

// LatestLimit bounds the latest-extensions listing.
const LatestLimit = 20

// ExtensionDTO is the externally visible extension record.
type ExtensionDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HistoryPriceDTO is one price-history entry of an extension.
type HistoryPriceDTO struct {
	ID                int64           `json:"id"`
	RegistrarID       int64           `json:"registrarId"`
	ExtensionID       int64           `json:"extensionId"`
	Registrar         string          `json:"registrar"`
	RegistrationPrice decimal.Decimal `json:"registrationPrice"`
	RenewalPrice      decimal.Decimal `json:"renewalPrice"`
	TransferPrice     decimal.Decimal `json:"transferPrice"`
	Currency          string          `json:"currency"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// Detail is the result of an extension lookup. Extension is nil when the
// name matched nothing, which is a normal result rather than an error.
type Detail struct {
	Extension *ExtensionDTO     `json:"extension"`
	Prices    []HistoryPriceDTO `json:"prices"`
}

type reader interface {
	FindByName(ctx context.Context, name string) (*models.Extension, error)
	PriceHistory(ctx context.Context, extensionID int64) ([]HistoryRow, error)
	ListLatest(ctx context.Context, limit int) ([]models.Extension, error)
}

// Service exposes extension lookups.
type Service interface {
	GetByName(ctx context.Context, name string) (*Detail, error)
	Latest(ctx context.Context) ([]ExtensionDTO, error)
}

type service struct {
	repo reader
}

// NewService constructs the extensions service.
func NewService(repo reader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("extensions repository required")
	}
	return &service{repo: repo}, nil
}

// GetByName resolves an extension (auto-prefixing the dot) together with its
// full price history, most recent first.
func (s *service) GetByName(ctx context.Context, name string) (*Detail, error) {
	ext, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: find extension")
	}
	if ext == nil {
		return &Detail{Extension: nil, Prices: []HistoryPriceDTO{}}, nil
	}

	history, err := s.repo.PriceHistory(ctx, ext.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list price history")
	}

	prices := make([]HistoryPriceDTO, 0, len(history))
	for _, row := range history {
		prices = append(prices, HistoryPriceDTO{
			ID:                row.ID,
			RegistrarID:       row.RegistrarID,
			ExtensionID:       row.ExtensionID,
			Registrar:         row.RegistrarName,
			RegistrationPrice: row.RegistrationPrice,
			RenewalPrice:      row.RenewalPrice,
			TransferPrice:     row.TransferPrice,
			Currency:          "USD",
			CreatedAt:         row.CreatedAt,
		})
	}

	return &Detail{
		Extension: toExtensionDTO(*ext),
		Prices:    prices,
	}, nil
}

// Latest returns the most recently created extensions.
func (s *service) Latest(ctx context.Context) ([]ExtensionDTO, error) {
	rows, err := s.repo.ListLatest(ctx, LatestLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list latest extensions")
	}
	dtos := make([]ExtensionDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, *toExtensionDTO(row))
	}
	return dtos, nil
}

func toExtensionDTO(ext models.Extension) *ExtensionDTO {
	return &ExtensionDTO{
		ID:        ext.ID,
		Name:      ext.Name,
		CreatedAt: ext.CreatedAt,
		UpdatedAt: ext.UpdatedAt,
	}
}
