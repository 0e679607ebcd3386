package services

import (
	"strings"

	"github.com/google/uuid"
)

// parseID returns the canonical form of a uuid. Anything else cannot name a
// stored row.
func parseID(raw string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// NormalizeIDs trims, validates and deduplicates a list of record ids.
func NormalizeIDs(field string, ids []string) ([]string, error) {
	seen := make(map[string]bool, len(ids))
	cleaned := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, ok := parseID(raw)
		if !ok {
			return nil, ErrValidation(field+" must contain valid ids", []FieldError{{Field: field, Message: "invalid id " + strings.TrimSpace(raw)}})
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		cleaned = append(cleaned, id)
	}
	return cleaned, nil
}

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func NormalizeRequired(value, field string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrValidation(field+" must not be blank", []FieldError{{Field: field, Message: "must not be blank"}})
	}
	return trimmed, nil
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// uniqueNonBlank trims values and drops blanks and repeats, keeping order.
func uniqueNonBlank(values []string) []string {
	seen := make(map[string]bool, len(values))
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		v := strings.TrimSpace(value)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		cleaned = append(cleaned, v)
	}
	return cleaned
}
