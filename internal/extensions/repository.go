package extensions

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tldpricer/tldpricer-backend/internal/repo"
	"github.com/tldpricer/tldpricer-backend/pkg/db"
	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
)

// HistoryRow is one price-history entry joined with the registrar name.
type HistoryRow struct {
	ID                int64
	RegistrarID       int64
	ExtensionID       int64
	RegistrarName     string
	RegistrationPrice decimal.Decimal
	RenewalPrice      decimal.Decimal
	TransferPrice     decimal.Decimal
	CreatedAt         time.Time
}

// Repository reads extensions and their price history.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(conn)}
}

// FindByName loads an extension by canonical name. A missing extension is a
// normal (nil, nil) result, not an error.
func (r *Repository) FindByName(ctx context.Context, name string) (*models.Extension, error) {
	var ext models.Extension
	err := r.base.DB(ctx).First(&ext, "name = ?", Canonicalize(name)).Error
	if db.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find extension: %w", err)
	}
	return &ext, nil
}

// PriceHistory returns every price row for the extension (full history, no
// de-duplication) joined with registrar names, most recent first.
func (r *Repository) PriceHistory(ctx context.Context, extensionID int64) ([]HistoryRow, error) {
	var rows []HistoryRow
	err := r.base.DB(ctx).Raw(`
SELECT p.id, p.registrar_id, p.extension_id,
       p.registration_price, p.renewal_price, p.transfer_price, p.created_at,
       r.name AS registrar_name
FROM prices p
JOIN registrars r ON r.id = p.registrar_id
WHERE p.extension_id = ?
ORDER BY p.created_at DESC, p.id DESC`, extensionID).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list price history: %w", err)
	}
	return rows, nil
}

// ListLatest returns the most recently created extensions.
func (r *Repository) ListLatest(ctx context.Context, limit int) ([]models.Extension, error) {
	var rows []models.Extension
	err := r.base.DB(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list latest extensions: %w", err)
	}
	return rows, nil
}
