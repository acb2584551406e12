package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Registrar represents a company selling domain registrations.
type Registrar struct {
	ID        int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string          `gorm:"column:name;uniqueIndex;not null"`
	Status    int             `gorm:"column:status;not null;default:1"`
	ICANNFee  decimal.Decimal `gorm:"column:icann_fee;type:numeric(6,2);not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Registrar) TableName() string {
	return "registrars"
}
