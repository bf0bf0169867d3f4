package models

import "time"

// Student represents a learner enrolled at the center
type Student struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	Code        string     `json:"student_code" gorm:"uniqueIndex;not null" validate:"required"`
	FirstName   string     `json:"first_name" gorm:"not null" validate:"required"`
	LastName    string     `json:"last_name" gorm:"not null" validate:"required"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" gorm:"type:date"`
	Gender      Gender     `json:"gender,omitempty" gorm:"type:varchar(10)"`
	School      string     `json:"school,omitempty"`
	Grade       string     `json:"grade,omitempty" gorm:"type:varchar(10)"`
	Phone       string     `json:"phone,omitempty" gorm:"type:varchar(20)"`
	ParentPhone string     `json:"parent_phone,omitempty" gorm:"type:varchar(20)"`
	Address     string     `json:"address,omitempty"`
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Enrollments []*Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID;references:ID"`
}

// FullName returns the display name used on invoices and receipts.
func (s *Student) FullName() string {
	if s.FirstName == "" {
		return s.LastName
	}
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
