package models

import "time"

type FlowIntensity string

const (
	FlowSpotting FlowIntensity = "spotting"
	FlowLight    FlowIntensity = "light"
	FlowMedium   FlowIntensity = "medium"
	FlowHeavy    FlowIntensity = "heavy"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5
)

// PeriodEntry is a single logged record. Date fields are kept as text because
// stored values are not guaranteed to parse; consumers must tolerate that.
type PeriodEntry struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;index" json:"-"`
	Date            string        `gorm:"type:text;not null" json:"date"`
	Flow            FlowIntensity `gorm:"type:text;not null;default:light" json:"flow"`
	PeriodStartDate string        `gorm:"type:text;not null;default:''" json:"period_start_date,omitempty"`
	PeriodEndDate   string        `gorm:"type:text;not null;default:''" json:"period_end_date,omitempty"`
	Symptoms        Symptoms      `gorm:"type:text" json:"symptoms"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}
