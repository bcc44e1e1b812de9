package models

import (
	"database/sql/driver"
	"encoding/json"
)

const (
	MinSymptomSeverity = 1
	MaxSymptomSeverity = 5
)

// Symptoms holds a severity per known symptom. Zero means the symptom was not logged.
type Symptoms struct {
	Cramps   int `json:"cramps,omitempty" validate:"omitempty,min=1,max=5"`
	Mood     int `json:"mood,omitempty" validate:"omitempty,min=1,max=5"`
	Energy   int `json:"energy,omitempty" validate:"omitempty,min=1,max=5"`
	Headache int `json:"headache,omitempty" validate:"omitempty,min=1,max=5"`
	Bloating int `json:"bloating,omitempty" validate:"omitempty,min=1,max=5"`
}

// Clamped pulls stored severities back into range. Negative values become the
// minimum severity, values above the scale become the maximum.
func (symptoms Symptoms) Clamped() Symptoms {
	return Symptoms{
		Cramps:   clampSeverity(symptoms.Cramps),
		Mood:     clampSeverity(symptoms.Mood),
		Energy:   clampSeverity(symptoms.Energy),
		Headache: clampSeverity(symptoms.Headache),
		Bloating: clampSeverity(symptoms.Bloating),
	}
}

func (symptoms Symptoms) IsEmpty() bool {
	return symptoms == Symptoms{}
}

// Scan reads the stored JSON column. Values that do not decode are read as no
// symptoms instead of failing the whole query.
func (symptoms *Symptoms) Scan(value any) error {
	*symptoms = Symptoms{}

	var raw []byte
	switch stored := value.(type) {
	case []byte:
		raw = stored
	case string:
		raw = []byte(stored)
	default:
		return nil
	}

	var decoded Symptoms
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil
	}
	*symptoms = decoded
	return nil
}

func (symptoms Symptoms) Value() (driver.Value, error) {
	if symptoms.IsEmpty() {
		return nil, nil
	}
	encoded, err := json.Marshal(symptoms)
	if err != nil {
		return nil, err
	}
	return string(encoded), nil
}

func clampSeverity(value int) int {
	switch {
	case value == 0:
		return 0
	case value < MinSymptomSeverity:
		return MinSymptomSeverity
	case value > MaxSymptomSeverity:
		return MaxSymptomSeverity
	default:
		return value
	}
}
