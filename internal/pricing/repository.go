package pricing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tldpricer/tldpricer-backend/internal/extensions"
	"github.com/tldpricer/tldpricer-backend/internal/repo"
	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
)

// PairKey identifies a (registrar, extension) pair, the de-duplication key of
// the current-price listing and the join key for promotions.
type PairKey struct {
	RegistrarID int64
	ExtensionID int64
}

// CurrentPriceRow is one ranked listing row joined with display names.
type CurrentPriceRow struct {
	ID                int64
	RegistrarID       int64
	ExtensionID       int64
	RegistrarName     string
	ExtensionName     string
	RegistrationPrice decimal.Decimal
	RenewalPrice      decimal.Decimal
	TransferPrice     decimal.Decimal
	CreatedAt         time.Time
}

// ListResult carries one page of ranked rows, the promotions for those rows
// keyed by pair, and the total key count under the same filter and snapshot.
type ListResult struct {
	Rows       []CurrentPriceRow
	Promos     map[PairKey][]models.Promotion
	TotalCount int64
}

// Repository runs the ranked listing queries against the registry store.
type Repository struct {
	base repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{base: repo.NewBase(db)}
}

// currentRankedSelect ranks every price row within its (registrar, extension)
// partition by recency so rn = 1 is the current price for the pair. The
// ranking runs set-based in the store; rows inserted concurrently cannot
// split the reduction the way a filter-then-lookup sequence could.
const currentRankedSelect = `
SELECT p.id, p.registrar_id, p.extension_id,
       p.registration_price, p.renewal_price, p.transfer_price, p.created_at,
       r.name AS registrar_name, e.name AS extension_name
FROM (
    SELECT *,
           ROW_NUMBER() OVER (PARTITION BY registrar_id, extension_id ORDER BY created_at DESC, id DESC) AS rn
    FROM prices
) p
JOIN registrars r ON r.id = p.registrar_id
JOIN extensions e ON e.id = p.extension_id
`

const cheapestRankedSelect = `
SELECT p.id, p.registrar_id, p.extension_id,
       p.registration_price, p.renewal_price, p.transfer_price, p.created_at,
       r.name AS registrar_name, e.name AS extension_name
FROM (
    SELECT *,
           ROW_NUMBER() OVER (PARTITION BY extension_id ORDER BY registration_price ASC, id ASC) AS rn
    FROM prices
) p
JOIN registrars r ON r.id = p.registrar_id
JOIN extensions e ON e.id = p.extension_id
`

// ListCurrent returns one page of current prices (latest row per pair), the
// promotions attached to the page's pairs, and the distinct pair count under
// the filter. Page, count, and promotions are read in a single transaction so
// they reflect one snapshot.
func (r *Repository) ListCurrent(ctx context.Context, in ListPricesInput) (*ListResult, error) {
	var (
		conds []string
		args  []any
	)
	if in.RegistrarContains != "" {
		conds = append(conds, "LOWER(r.name) LIKE ?")
		args = append(args, containsPattern(in.RegistrarContains))
	}
	if in.ExtensionName != "" {
		conds = append(conds, "e.name = ?")
		args = append(args, extensions.Canonicalize(in.ExtensionName))
	}

	listQuery := currentRankedSelect +
		whereClause(append([]string{"p.rn = 1"}, conds...)) +
		orderClause(in.SortBy.column(), in.SortOrder) +
		" LIMIT ? OFFSET ?"

	countQuery := `
SELECT COUNT(*) FROM (
    SELECT DISTINCT p.registrar_id, p.extension_id
    FROM prices p
    JOIN registrars r ON r.id = p.registrar_id
    JOIN extensions e ON e.id = p.extension_id
    ` + whereClause(conds) + `
) keys`

	result := &ListResult{}
	err := r.base.DB(ctx).Transaction(func(tx *gorm.DB) error {
		listArgs := append(append([]any{}, args...), in.Limit, offset(in.Page, in.Limit))
		if err := tx.Raw(listQuery, listArgs...).Scan(&result.Rows).Error; err != nil {
			return fmt.Errorf("list current prices: %w", err)
		}
		if err := tx.Raw(countQuery, args...).Scan(&result.TotalCount).Error; err != nil {
			return fmt.Errorf("count current prices: %w", err)
		}
		promos, err := promotionsForRows(tx, result.Rows)
		if err != nil {
			return err
		}
		result.Promos = promos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListCheapest returns one page of cheapest-per-extension rows (minimum
// registration price per extension, ties broken by lowest id) plus the
// matching promotions and the distinct extension count under the filter.
func (r *Repository) ListCheapest(ctx context.Context, in ListCheapestInput) (*ListResult, error) {
	var (
		conds []string
		args  []any
	)
	if in.ExtensionContains != "" {
		conds = append(conds, "LOWER(e.name) LIKE ?")
		args = append(args, containsPattern(in.ExtensionContains))
	}

	listQuery := cheapestRankedSelect +
		whereClause(append([]string{"p.rn = 1"}, conds...)) +
		orderClause(in.SortBy.column(), in.SortOrder) +
		" LIMIT ? OFFSET ?"

	countQuery := `
SELECT COUNT(DISTINCT p.extension_id)
FROM prices p
JOIN extensions e ON e.id = p.extension_id
` + whereClause(conds)

	result := &ListResult{}
	err := r.base.DB(ctx).Transaction(func(tx *gorm.DB) error {
		listArgs := append(append([]any{}, args...), in.Limit, offset(in.Page, in.Limit))
		if err := tx.Raw(listQuery, listArgs...).Scan(&result.Rows).Error; err != nil {
			return fmt.Errorf("list cheapest prices: %w", err)
		}
		if err := tx.Raw(countQuery, args...).Scan(&result.TotalCount).Error; err != nil {
			return fmt.Errorf("count cheapest prices: %w", err)
		}
		promos, err := promotionsForRows(tx, result.Rows)
		if err != nil {
			return err
		}
		result.Promos = promos
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// promotionsForRows loads all promotions for the pairs on the page in one
// query, then drops the cross-product leakage of the two IN lists.
func promotionsForRows(tx *gorm.DB, rows []CurrentPriceRow) (map[PairKey][]models.Promotion, error) {
	promos := make(map[PairKey][]models.Promotion, len(rows))
	if len(rows) == 0 {
		return promos, nil
	}

	pairs := make(map[PairKey]struct{}, len(rows))
	regIDs := make([]int64, 0, len(rows))
	extIDs := make([]int64, 0, len(rows))
	for _, row := range rows {
		key := PairKey{RegistrarID: row.RegistrarID, ExtensionID: row.ExtensionID}
		if _, ok := pairs[key]; ok {
			continue
		}
		pairs[key] = struct{}{}
		regIDs = append(regIDs, row.RegistrarID)
		extIDs = append(extIDs, row.ExtensionID)
	}

	var found []models.Promotion
	err := tx.
		Where("registrar_id IN ? AND extension_id IN ?", regIDs, extIDs).
		Order("type ASC, created_at DESC, id ASC").
		Find(&found).Error
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}

	for _, promo := range found {
		key := PairKey{RegistrarID: promo.RegistrarID, ExtensionID: promo.ExtensionID}
		if _, ok := pairs[key]; !ok {
			continue
		}
		promos[key] = append(promos[key], promo)
	}
	return promos, nil
}

func containsPattern(value string) string {
	return "%" + strings.ToLower(strings.TrimSpace(value)) + "%"
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// orderClause appends the deterministic id tie-break. Column and direction
// come from the fixed whitelists on the sort key types, never from request
// input.
func orderClause(column string, order SortOrder) string {
	return fmt.Sprintf(" ORDER BY %s %s, p.id ASC", column, order.direction())
}

func offset(page, limit int) int {
	return (page - 1) * limit
}
