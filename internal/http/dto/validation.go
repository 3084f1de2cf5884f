package dto

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cesargomez89/reelbox/internal/constants"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) ToMap() map[string]string {
	return map[string]string{e.Field: e.Message}
}

func ToMap(errs []ValidationError) map[string]string {
	result := make(map[string]string)
	for _, e := range errs {
		result[e.Field] = e.Message
	}
	return result
}

func ToResponse(errs []ValidationError) string {
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}

func validatePath(field, path string) []ValidationError {
	var errs []ValidationError
	if path == "" {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	} else if !filepath.IsAbs(path) {
		errs = append(errs, ValidationError{Field: field, Message: "must be an absolute path"})
	}
	return errs
}

func validateRequired(field, value string) []ValidationError {
	var errs []ValidationError
	if strings.TrimSpace(value) == "" {
		errs = append(errs, ValidationError{Field: field, Message: "is required"})
	}
	return errs
}

func validateYear(year *int) []ValidationError {
	var errs []ValidationError
	if year != nil && *year != 0 {
		if *year < 1900 || *year > 2100 {
			errs = append(errs, ValidationError{Field: "year", Message: "must be between 1900 and 2100"})
		}
	}
	return errs
}

func validateRating(rating *float64) []ValidationError {
	var errs []ValidationError
	if rating != nil {
		if *rating < 0 || *rating > 10 {
			errs = append(errs, ValidationError{Field: "rating", Message: "must be between 0 and 10"})
		}
	}
	return errs
}

func validateDuration(duration *int) []ValidationError {
	var errs []ValidationError
	if duration != nil && *duration < 0 {
		errs = append(errs, ValidationError{Field: "duration", Message: "cannot be negative"})
	}
	return errs
}

// ValidateSortKey accepts "" as "keep the saved order".
func ValidateSortKey(key string) []ValidationError {
	var errs []ValidationError
	switch key {
	case "", constants.SortNameAsc, constants.SortNameDesc, constants.SortDateAsc,
		constants.SortDateDesc, constants.SortSizeAsc, constants.SortSizeDesc:
	default:
		errs = append(errs, ValidationError{Field: "sort", Message: "must be one of name_asc, name_desc, date_asc, date_desc, size_asc, size_desc"})
	}
	return errs
}

func validateResumeAction(action string) []ValidationError {
	var errs []ValidationError
	switch action {
	case "", constants.ResumeActionAsk, constants.ResumeActionStart, constants.ResumeActionResume:
	default:
		errs = append(errs, ValidationError{Field: "action", Message: "must be ask, start or resume"})
	}
	return errs
}
