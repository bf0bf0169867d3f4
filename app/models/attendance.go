package models

import "time"

// AttendanceSession is one held class meeting. Per-student records are
// stored alongside the session; the billing engine reads sessions but
// never writes them.
type AttendanceSession struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	ClassID   string          `json:"class_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Date      time.Time       `json:"date" gorm:"not null;index;type:date" validate:"required"`
	StartTime string          `json:"start_time,omitempty" gorm:"type:varchar(10)"`
	EndTime   string          `json:"end_time,omitempty" gorm:"type:varchar(10)"`
	TeacherID *string         `json:"teacher_id,omitempty" gorm:"index;type:uuid"`
	Records   []SessionRecord `json:"records" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt *time.Time      `json:"deleted_at,omitempty" gorm:"index"`

	Class   *Class `json:"class,omitempty" gorm:"foreignKey:ClassID;references:ID"`
	Teacher *User  `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
}

// SessionRecord is one student's entry within a session.
type SessionRecord struct {
	StudentID string `json:"student_id"`
	Present   bool   `json:"present"`
	// Price overrides the resolved per-session tuition for this
	// student in this session only.
	Price *float64 `json:"price,omitempty"`
	// Salary overrides the teacher's per-session rate for this session.
	Salary *float64 `json:"salary,omitempty"`
	Score  *float64 `json:"score,omitempty"`
	Note   string   `json:"note,omitempty"`
}
