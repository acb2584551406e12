package models

import "time"

// Extension represents a domain suffix (TLD) available for registration.
// Names are stored in canonical form with the leading dot, e.g. ".com".
type Extension struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	Status    int       `gorm:"column:status;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName pins the table name used by the seeded schema.
func (Extension) TableName() string {
	return "extensions"
}
