package criteria

import (
	"testing"

	"scholarship-workers/internal/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CanonicalRequest(t *testing.T) {
	n := NewNormalizer(10, 50)

	raw := map[string]interface{}{
		"searchCriteria": map[string]interface{}{
			"subjectAreas":  []interface{}{"Engineering", " Computer Science "},
			"keywords":      "  robotics stem  ",
			"academicLevel": "Undergraduate",
			"targetType":    "Merit",
			"minimumGPA":    3.5,
		},
		"maxResults": float64(25),
	}

	crit, maxResults, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Engineering", "Computer Science"}, crit.SubjectAreas)
	assert.Equal(t, "robotics stem", crit.Keywords)
	require.NotNil(t, crit.AcademicLevel)
	assert.Equal(t, "Undergraduate", *crit.AcademicLevel)
	require.NotNil(t, crit.MinimumGPA)
	assert.Equal(t, 3.5, *crit.MinimumGPA)
	assert.Nil(t, crit.Gender)
	assert.Equal(t, 25, maxResults)
}

func TestNormalize_LegacyFlatRequest(t *testing.T) {
	n := NewNormalizer(10, 50)

	raw := map[string]interface{}{
		"subjectAreas": []interface{}{"Nursing"},
		"gender":       "Female",
	}

	crit, maxResults, err := n.Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Nursing"}, crit.SubjectAreas)
	require.NotNil(t, crit.Gender)
	assert.Equal(t, "Female", *crit.Gender)
	assert.Equal(t, 10, maxResults)
}

func TestNormalize_RejectsMixedShapes(t *testing.T) {
	n := NewNormalizer(10, 50)

	raw := map[string]interface{}{
		"searchCriteria": map[string]interface{}{"keywords": "stem"},
		"keywords":       "engineering",
	}

	_, _, err := n.Normalize(raw)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNormalize_NilRequest(t *testing.T) {
	n := NewNormalizer(10, 50)

	_, _, err := n.Normalize(nil)
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestNormalize_CriteriaNotAnObject(t *testing.T) {
	n := NewNormalizer(10, 50)

	for name, value := range map[string]interface{}{
		"null":   nil,
		"string": "engineering",
		"array":  []interface{}{"engineering"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := n.Normalize(map[string]interface{}{"searchCriteria": value})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestNormalize_SchemaViolations(t *testing.T) {
	n := NewNormalizer(10, 50)

	tests := []struct {
		name     string
		criteria map[string]interface{}
	}{
		{"unknown field", map[string]interface{}{"favoriteColor": "blue"}},
		{"gpa above range", map[string]interface{}{"minimumGPA": 4.5}},
		{"invalid target type", map[string]interface{}{"targetType": "Athletic"}},
		{"bad deadline format", map[string]interface{}{
			"deadlineRange": map[string]interface{}{"startDate": "06/15/2026"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := n.Normalize(map[string]interface{}{"searchCriteria": tt.criteria})
			require.Error(t, err)
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestNormalize_MaxResultsBounds(t *testing.T) {
	n := NewNormalizer(10, 50)

	tests := []struct {
		name string
		raw  interface{}
		want int
	}{
		{"missing", nil, 10},
		{"zero", float64(0), 10},
		{"negative", float64(-3), 10},
		{"within cap", float64(30), 30},
		{"above cap", float64(500), 50},
		{"integer", 15, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]interface{}{
				"searchCriteria": map[string]interface{}{"keywords": "stem"},
			}
			if tt.raw != nil {
				raw["maxResults"] = tt.raw
			}

			_, maxResults, err := n.Normalize(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, maxResults)
		})
	}
}

func TestNormalize_EmptyCriteriaObjectAllowed(t *testing.T) {
	n := NewNormalizer(10, 50)

	crit, _, err := n.Normalize(map[string]interface{}{
		"searchCriteria": map[string]interface{}{},
	})
	require.NoError(t, err)
	assert.True(t, crit.IsEmpty())
}
