package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/terraincognita07/cyclecast/internal/models"
)

const MaxEntryNotesLength = 2000

var (
	ErrInvalidEntryInput     = errors.New("invalid entry input")
	ErrPeriodEndBeforeStart  = errors.New("period end date precedes start date")
	ErrPeriodEndWithoutStart = errors.New("period end date requires a start date")
)

var entryValidator = newEntryValidator()

type EntryInput struct {
	Date            string               `json:"date" validate:"required,datetime=2006-01-02"`
	Flow            models.FlowIntensity `json:"flow" validate:"required,oneof=spotting light medium heavy"`
	PeriodStartDate string               `json:"period_start_date" validate:"omitempty,datetime=2006-01-02"`
	PeriodEndDate   string               `json:"period_end_date" validate:"omitempty,datetime=2006-01-02"`
	Symptoms        models.Symptoms      `json:"symptoms"`
	Notes           string               `json:"notes"`
}

// NormalizeEntryInput trims the input and rejects anything the engine would have to discard.
func NormalizeEntryInput(input EntryInput) (EntryInput, error) {
	input.Date = strings.TrimSpace(input.Date)
	input.Flow = models.FlowIntensity(strings.ToLower(strings.TrimSpace(string(input.Flow))))
	input.PeriodStartDate = strings.TrimSpace(input.PeriodStartDate)
	input.PeriodEndDate = strings.TrimSpace(input.PeriodEndDate)
	input.Notes = TrimEntryNotes(strings.TrimSpace(input.Notes))

	if err := entryValidator.Struct(input); err != nil {
		return input, fmt.Errorf("%w: %s", ErrInvalidEntryInput, describeValidationError(err))
	}

	if input.PeriodEndDate != "" {
		if input.PeriodStartDate == "" {
			return input, fmt.Errorf("%w: %w", ErrInvalidEntryInput, ErrPeriodEndWithoutStart)
		}
		start, _ := ParseCalendarDate(input.PeriodStartDate)
		end, _ := ParseCalendarDate(input.PeriodEndDate)
		if end.Before(start) {
			return input, fmt.Errorf("%w: %w", ErrInvalidEntryInput, ErrPeriodEndBeforeStart)
		}
	}
	return input, nil
}

func newEntryValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return validate
}

// TrimEntryNotes caps notes at MaxEntryNotesLength bytes without splitting a rune.
func TrimEntryNotes(value string) string {
	if len(value) <= MaxEntryNotesLength {
		return value
	}
	cut := MaxEntryNotesLength
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}

func describeValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := fieldError.Namespace()
		if _, nested, ok := strings.Cut(field, "."); ok {
			field = nested
		}
		fields = append(fields, field+" "+fieldError.Tag())
	}
	return strings.Join(fields, ", ")
}

func (input EntryInput) apply(entry *models.PeriodEntry) {
	entry.Date = input.Date
	entry.Flow = input.Flow
	entry.PeriodStartDate = input.PeriodStartDate
	entry.PeriodEndDate = input.PeriodEndDate
	entry.Symptoms = input.Symptoms
	entry.Notes = input.Notes
}
