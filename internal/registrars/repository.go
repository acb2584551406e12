package registrars

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tldpricer/tldpricer-backend/internal/repo"
	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
)

// Repository reads registrar records.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(conn)}
}

// ListLatest returns the most recently created registrars.
func (r *Repository) ListLatest(ctx context.Context, limit int) ([]models.Registrar, error) {
	var rows []models.Registrar
	err := r.base.DB(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list latest registrars: %w", err)
	}
	return rows, nil
}
