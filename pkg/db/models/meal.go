package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Meal persists one catalog entry available for ordering.
type Meal struct {
	ID          string          `gorm:"column:id;primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description string          `gorm:"column:description;not null;default:''"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Position    int             `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Meal) TableName() string { return "meals" }
