package models

import "time"

// Enrollment records a student's membership in a class. Removal flips
// IsActive instead of deleting the row so that invoices for past
// months stay reproducible.
type Enrollment struct {
	ID        string  `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	ClassID   string  `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	StudentID string  `json:"student_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	// TuitionOverride is a private per-student rate for this class.
	// When set it beats every catalog price.
	TuitionOverride *float64   `json:"tuition_override,omitempty" gorm:"type:numeric"`
	IsActive        bool       `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Class   *Class   `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
	Student *Student `json:"student,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}
