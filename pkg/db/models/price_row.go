package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceRow is one timestamped price quotation for a (registrar, extension)
// pair. The table keeps full history: the current price for a pair is the row
// with the greatest created_at (ties broken by greatest id).
type PriceRow struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	RegistrarID       int64           `gorm:"column:registrar_id;not null;index:idx_prices_pair"`
	ExtensionID       int64           `gorm:"column:extension_id;not null;index:idx_prices_pair"`
	RegistrationPrice decimal.Decimal `gorm:"column:registration_price;type:numeric(10,2);not null"`
	RenewalPrice      decimal.Decimal `gorm:"column:renewal_price;type:numeric(10,2);not null"`
	TransferPrice     decimal.Decimal `gorm:"column:transfer_price;type:numeric(10,2);not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (PriceRow) TableName() string {
	return "prices"
}
