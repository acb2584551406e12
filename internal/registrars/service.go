package registrars

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
	pkgerrors "github.com/tldpricer/tldpricer-backend/pkg/errors"
)

// LatestLimit bounds the latest-registrars listing.
const LatestLimit = 20

// RegistrarDTO is the externally visible registrar record.
type RegistrarDTO struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	ICANNFee  decimal.Decimal `json:"icannFee"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type reader interface {
	ListLatest(ctx context.Context, limit int) ([]models.Registrar, error)
}

// Service exposes registrar lookups.
type Service interface {
	Latest(ctx context.Context) ([]RegistrarDTO, error)
}

type service struct {
	repo reader
}

// NewService constructs the registrars service.
func NewService(repo reader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("registrars repository required")
	}
	return &service{repo: repo}, nil
}

// Latest returns the most recently created registrars.
func (s *service) Latest(ctx context.Context) ([]RegistrarDTO, error) {
	rows, err := s.repo.ListLatest(ctx, LatestLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list latest registrars")
	}
	dtos := make([]RegistrarDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, RegistrarDTO{
			ID:        row.ID,
			Name:      row.Name,
			ICANNFee:  row.ICANNFee,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return dtos, nil
}
