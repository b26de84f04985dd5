// internal/search/normalize/normalize.go

// Package normalize coerces the loosely-typed records adapters produce
// into the canonical ScholarshipResult shape. Raw shapes never leak past
// this boundary.
package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"scholarship-workers/internal/models"
)

// RawRecord is one adapter's untyped output row.
type RawRecord map[string]interface{}

// Record coerces one raw record. The source tag always wins over anything
// the record claims, and a missing url falls back to the source's base
// URL. Only an empty title drops a record; every optional field tolerates
// absence.
func Record(raw RawRecord, source, sourceBaseURL string) (models.ScholarshipResult, bool) {
	title := strings.TrimSpace(stringField(raw, "title", "name"))
	if title == "" {
		return models.ScholarshipResult{}, false
	}

	result := models.ScholarshipResult{
		Title:                  title,
		Description:            stringField(raw, "description"),
		Organization:           stringField(raw, "organization", "provider", "sponsor"),
		Amount:                 amountField(raw),
		Deadline:               stringField(raw, "deadline", "applicationDeadline"),
		Eligibility:            flattenEligibility(raw["eligibility"]),
		Gender:                 stringField(raw, "gender"),
		Ethnicity:              stringField(raw, "ethnicity"),
		AcademicLevel:          stringField(raw, "academicLevel", "educationLevel"),
		AcademicGPA:            floatField(raw, "academicGPA", "minimumGPA", "gpa"),
		SubjectAreas:           stringSliceField(raw, "subjectAreas", "majors"),
		EssayRequired:          boolField(raw, "essayRequired"),
		RecommendationRequired: boolField(raw, "recommendationRequired"),
		Renewable:              boolField(raw, "renewable"),
		GeographicRestrictions: stringField(raw, "geographicRestrictions", "state"),
		Source:                 source,
		URL:                    stringField(raw, "url", "link"),
	}

	if result.URL == "" {
		result.URL = sourceBaseURL
	}

	return result, true
}

// Records coerces a batch, dropping only title-less rows.
func Records(raws []RawRecord, source, sourceBaseURL string) []models.ScholarshipResult {
	results := make([]models.ScholarshipResult, 0, len(raws))
	for _, raw := range raws {
		if result, ok := Record(raw, source, sourceBaseURL); ok {
			results = append(results, result)
		}
	}
	return results
}

// flattenEligibility accepts a string, an array, or a keyed structure and
// yields one comma-joined string. Array order and key insertion order are
// preserved as delivered by the decoder.
func flattenEligibility(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case []string:
		return strings.Join(val, ", ")
	case map[string]interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := asString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return asString(val)
	}
}

// amountField reconciles the two representations seen across sources: a
// freeform string, or numeric bounds (bare number or {min,max}).
func amountField(raw RawRecord) string {
	if v, ok := raw["amount"]; ok && v != nil {
		switch val := v.(type) {
		case string:
			return val
		case float64:
			return formatDollars(val)
		case int:
			return formatDollars(float64(val))
		case map[string]interface{}:
			return formatAmountRange(val)
		}
	}

	min, hasMin := numberAt(raw, "amountMin")
	max, hasMax := numberAt(raw, "amountMax")
	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s - %s", formatDollars(min), formatDollars(max))
	case hasMin:
		return formatDollars(min) + "+"
	case hasMax:
		return "Up to " + formatDollars(max)
	}

	return ""
}

func formatAmountRange(bounds map[string]interface{}) string {
	min, hasMin := numberAt(bounds, "min")
	max, hasMax := numberAt(bounds, "max")
	switch {
	case hasMin && hasMax && min == max:
		return formatDollars(min)
	case hasMin && hasMax:
		return fmt.Sprintf("%s - %s", formatDollars(min), formatDollars(max))
	case hasMin:
		return formatDollars(min) + "+"
	case hasMax:
		return "Up to " + formatDollars(max)
	default:
		return ""
	}
}

func formatDollars(v float64) string {
	return "$" + strconv.FormatFloat(v, 'f', -1, 64)
}

func stringField(raw RawRecord, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func stringSliceField(raw RawRecord, keys ...string) []string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case []string:
			return val
		case []interface{}:
			out := make([]string, 0, len(val))
			for _, item := range val {
				if s := asString(item); s != "" {
					out = append(out, s)
				}
			}
			return out
		case string:
			// Stored records join areas with commas.
			parts := strings.Split(val, ",")
			out := make([]string, 0, len(parts))
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}
	return nil
}

func boolField(raw RawRecord, key string) *bool {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil
	}
	switch val := v.(type) {
	case bool:
		b := val
		return &b
	case string:
		// Stored records encode booleans as "true"/"false" strings.
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "yes":
			b := true
			return &b
		case "false", "no":
			b := false
			return &b
		}
	}
	return nil
}

func floatField(raw RawRecord, keys ...string) *float64 {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch val := v.(type) {
		case float64:
			f := val
			return &f
		case int:
			f := float64(val)
			return &f
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func numberAt(m map[string]interface{}, key string) (float64, bool) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(val), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func asString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
