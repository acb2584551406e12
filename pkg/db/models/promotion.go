package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Promotion price types, selecting which PriceRow amount the discount applies to.
const (
	PromoTypeRegistration = 0
	PromoTypeRenewal      = 1
	PromoTypeTransfer     = 2
)

// Promotion is a discount on one price type of a (registrar, extension) pair.
// Promotions join to price rows by pair, not by price row id.
type Promotion struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement"`
	RegistrarID   int64           `gorm:"column:registrar_id;not null;index:idx_promotions_pair"`
	ExtensionID   int64           `gorm:"column:extension_id;not null;index:idx_promotions_pair"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Type          int             `gorm:"column:type;not null;default:0"`
	IsLimitedTime bool            `gorm:"column:is_limited_time;not null;default:false"`
	IsNewUserOnly bool            `gorm:"column:is_new_user_only;not null;default:false"`
	Code          *string         `gorm:"column:code"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Promotion) TableName() string {
	return "promotions"
}
