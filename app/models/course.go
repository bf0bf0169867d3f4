package models

import "time"

// Course is a catalog entry: the default per-session price for a
// subject at a grade level. Classes without their own fee fall back
// to the matching course price.
type Course struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Name            string     `json:"name" gorm:"not null" validate:"required"` // display label, e.g. "Toán"
	Subject         string     `json:"subject" gorm:"not null" validate:"required"` // canonical value, e.g. "toan"
	Grade           string     `json:"grade" gorm:"type:varchar(10)" validate:"required"`
	PricePerSession float64    `json:"price_per_session" gorm:"type:numeric;default:0"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}
