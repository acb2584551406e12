package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
	"github.com/tldpricer/tldpricer-backend/pkg/pagination"
)

func init() {
	// Monetary amounts cross the boundary as JSON numbers, matching the
	// documented wire shape.
	decimal.MarshalJSONWithoutQuotes = true
}

// Currency is the single currency of every stored price.
const Currency = "USD"

// PromoDTO is a promotion attached to a price record.
type PromoDTO struct {
	ID               int64           `json:"id"`
	Code             *string         `json:"code"`
	Price            decimal.Decimal `json:"price"`
	Type             int             `json:"type"`
	IsLimited        bool            `json:"isLimited"`
	IsOnlyForNewUser bool            `json:"isOnlyForNewUser"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// PriceRecord is one externally visible listing row.
type PriceRecord struct {
	ID                int64           `json:"id"`
	Registrar         string          `json:"registrar"`
	Extension         string          `json:"extension"`
	RegistrationPrice decimal.Decimal `json:"registrationPrice"`
	RenewalPrice      decimal.Decimal `json:"renewalPrice"`
	TransferPrice     decimal.Decimal `json:"transferPrice"`
	Currency          string          `json:"currency"`
	CreatedAt         time.Time       `json:"createdAt"`
	Promos            []PromoDTO      `json:"promos"`
}

// PriceListResult is one page of records plus its pagination envelope.
type PriceListResult struct {
	Records    []PriceRecord   `json:"records"`
	Pagination pagination.Meta `json:"pagination"`
}

func toPriceRecords(result *ListResult) []PriceRecord {
	records := make([]PriceRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		key := PairKey{RegistrarID: row.RegistrarID, ExtensionID: row.ExtensionID}
		records = append(records, PriceRecord{
			ID:                row.ID,
			Registrar:         row.RegistrarName,
			Extension:         row.ExtensionName,
			RegistrationPrice: row.RegistrationPrice,
			RenewalPrice:      row.RenewalPrice,
			TransferPrice:     row.TransferPrice,
			Currency:          Currency,
			CreatedAt:         row.CreatedAt,
			Promos:            toPromoDTOs(result.Promos[key]),
		})
	}
	return records
}

func toPromoDTOs(promos []models.Promotion) []PromoDTO {
	dtos := make([]PromoDTO, 0, len(promos))
	for _, promo := range promos {
		dtos = append(dtos, PromoDTO{
			ID:               promo.ID,
			Code:             promo.Code,
			Price:            promo.Price,
			Type:             promo.Type,
			IsLimited:        promo.IsLimitedTime,
			IsOnlyForNewUser: promo.IsNewUserOnly,
			CreatedAt:        promo.CreatedAt,
		})
	}
	return dtos
}
