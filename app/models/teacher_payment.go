package models

import "time"

// TeacherRate is the per-session pay configured for a teacher. A
// session-level salary override on the attendance record beats it.
type TeacherRate struct {
	ID             string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	TeacherID      string     `json:"teacher_id" gorm:"not null;uniqueIndex;type:uuid" validate:"required,uuid"`
	RatePerSession float64    `json:"rate_per_session" gorm:"type:numeric;not null" validate:"gte=0"`
	EffectiveDate  time.Time  `json:"effective_date" gorm:"not null;type:date;default:CURRENT_DATE"`
	CreatedAt      time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" gorm:"index"`

	Teacher *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
}

// TeacherPayment represents a payroll disbursement to a teacher for a month.
type TeacherPayment struct {
	ID        string      `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()" validate:"required,uuid"`
	TeacherID string      `json:"teacher_id" gorm:"not null;index;type:uuid" validate:"required,uuid"`
	Amount    float64     `json:"amount" gorm:"type:numeric;not null" validate:"required,gt=0"`
	Type      PaymentType `json:"type" gorm:"not null;type:varchar(20)" validate:"required"`
	Month     int         `json:"month" gorm:"not null" validate:"required,min=1,max=12"`
	Year      int         `json:"year" gorm:"not null" validate:"required"`
	PaidAt    time.Time   `json:"paid_at" gorm:"autoCreateTime"`
	Reference string      `json:"reference" gorm:"type:varchar(100)"` // transfer code, receipt no, etc.
	Notes     string      `json:"notes" gorm:"type:text"`

	Teacher *User `json:"teacher,omitempty" gorm:"foreignKey:TeacherID;references:ID"`
}

// PayrollSummary is the computed pay for one teacher over a month:
// attended sessions times the teacher's rate, with per-session salary
// overrides applied where present.
type PayrollSummary struct {
	TeacherID     string  `json:"teacher_id"`
	TeacherName   string  `json:"teacher_name"`
	Month         int     `json:"month"`
	Year          int     `json:"year"`
	SessionsTaught int    `json:"sessions_taught"`
	RatePerSession float64 `json:"rate_per_session"`
	TotalAmount   float64 `json:"total_amount"`
	PaidAmount    float64 `json:"paid_amount"`
	Outstanding   float64 `json:"outstanding"`
}
