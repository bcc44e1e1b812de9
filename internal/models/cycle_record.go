package models

import "time"

type CycleRecord struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	UserID         uint      `gorm:"not null;index" json:"-"`
	CycleStartDate string    `gorm:"type:text;not null" json:"cycle_start_date"`
	CycleEndDate   *string   `gorm:"type:text" json:"cycle_end_date,omitempty"`
	CycleLength    *int      `json:"cycle_length,omitempty"`
	PeriodLength   *int      `json:"period_length,omitempty"`
	Predicted      bool      `gorm:"not null;default:false" json:"predicted"`
	CreatedAt      time.Time `json:"-"`
}
