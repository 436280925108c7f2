package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductParameter holds a parameter value for one listing. Unique per
// (product_info, parameter); the value is last-write-wins on import.
type ProductParameter struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductInfoID uuid.UUID  `gorm:"column:product_info_id;type:uuid;not null;uniqueIndex:idx_info_parameter"`
	ParameterID   uuid.UUID  `gorm:"column:parameter_id;type:uuid;not null;uniqueIndex:idx_info_parameter"`
	Value         string     `gorm:"column:value;not null"`
	Parameter     *Parameter `gorm:"foreignKey:ParameterID"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
