// internal/search/criteria/schema.go
package criteria

import "scholarship-workers/internal/models"

// criteriaSchema validates the canonical searchCriteria object. Nullable
// fields accept explicit null so callers can send the full shape without
// pruning unset filters.
func criteriaSchema() map[string]interface{} {
	nullableString := map[string]interface{}{"type": []string{"string", "null"}}
	nullableBool := map[string]interface{}{"type": []string{"boolean", "null"}}
	nullableEnum := func(values []string) map[string]interface{} {
		enum := make([]interface{}, 0, len(values)+1)
		for _, v := range values {
			enum = append(enum, v)
		}
		enum = append(enum, nil)
		return map[string]interface{}{
			"type": []string{"string", "null"},
			"enum": enum,
		}
	}

	return map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"subjectAreas": map[string]interface{}{
				"type":  []string{"array", "null"},
				"items": map[string]interface{}{"type": "string"},
			},
			"keywords":               map[string]interface{}{"type": []string{"string", "null"}},
			"academicLevel":          nullableEnum(models.EducationLevels),
			"targetType":             nullableEnum(models.TargetTypes),
			"gender":                 nullableEnum(models.Genders),
			"ethnicity":              nullableEnum(models.Ethnicities),
			"geographicRestrictions": nullableString,
			"minimumGPA": map[string]interface{}{
				"type":    []string{"number", "null"},
				"minimum": 0.0,
				"maximum": 4.0,
			},
			"essayRequired":          nullableBool,
			"recommendationRequired": nullableBool,
			"amountRange": map[string]interface{}{
				"type":                 []string{"object", "null"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"min": map[string]interface{}{"type": []string{"number", "null"}},
					"max": map[string]interface{}{"type": []string{"number", "null"}},
				},
			},
			"deadlineRange": map[string]interface{}{
				"type":                 []string{"object", "null"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"startDate": map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
					"endDate":   map[string]interface{}{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
				},
			},
		},
	}
}
