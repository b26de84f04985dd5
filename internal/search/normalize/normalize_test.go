package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_RequiresTitle(t *testing.T) {
	_, ok := Record(RawRecord{"description": "no title here"}, "dynamodb", "")
	assert.False(t, ok)

	_, ok = Record(RawRecord{"title": "   "}, "dynamodb", "")
	assert.False(t, ok)
}

func TestRecord_SourceTagAlwaysWins(t *testing.T) {
	result, ok := Record(RawRecord{
		"title":  "STEM Leaders Grant",
		"source": "somewhere-else",
	}, "bedrock-ai", "")

	require.True(t, ok)
	assert.Equal(t, "bedrock-ai", result.Source)
}

func TestRecord_URLDefaultsToSourceBase(t *testing.T) {
	result, ok := Record(RawRecord{"title": "Local Award"}, "careeronestop", "https://www.careeronestop.org")
	require.True(t, ok)
	assert.Equal(t, "https://www.careeronestop.org", result.URL)

	result, ok = Record(RawRecord{
		"title": "Local Award",
		"url":   "https://example.org/award",
	}, "careeronestop", "https://www.careeronestop.org")
	require.True(t, ok)
	assert.Equal(t, "https://example.org/award", result.URL)
}

func TestFlattenEligibility(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"string passes through", "US residents only", "US residents only"},
		{"array comma-joined", []interface{}{"a", "b"}, "a, b"},
		{"nil empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flattenEligibility(tt.input))
		})
	}

	t.Run("keyed structure joins values", func(t *testing.T) {
		got := flattenEligibility(map[string]interface{}{"x": "a", "y": "b"})
		assert.Contains(t, got, "a")
		assert.Contains(t, got, "b")
		assert.Contains(t, got, ", ")
	})
}

func TestAmountReconciliation(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		want string
	}{
		{"freeform string", RawRecord{"title": "t", "amount": "Amount varies"}, "Amount varies"},
		{"bare number", RawRecord{"title": "t", "amount": float64(5000)}, "$5000"},
		{"min and max", RawRecord{"title": "t", "amount": map[string]interface{}{"min": float64(1000), "max": float64(2500)}}, "$1000 - $2500"},
		{"equal bounds collapse", RawRecord{"title": "t", "amount": map[string]interface{}{"min": float64(1500), "max": float64(1500)}}, "$1500"},
		{"min only", RawRecord{"title": "t", "amount": map[string]interface{}{"min": float64(1000)}}, "$1000+"},
		{"max only", RawRecord{"title": "t", "amount": map[string]interface{}{"max": float64(2500)}}, "Up to $2500"},
		{"flat bounds keys", RawRecord{"title": "t", "amountMin": float64(500), "amountMax": float64(900)}, "$500 - $900"},
		{"absent", RawRecord{"title": "t"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := Record(tt.raw, "dynamodb", "")
			require.True(t, ok)
			assert.Equal(t, tt.want, result.Amount)
		})
	}
}

func TestRecord_StoredStringBooleans(t *testing.T) {
	result, ok := Record(RawRecord{
		"title":         "Encoded Flags Award",
		"essayRequired": "true",
		"renewable":     "false",
	}, "dynamodb", "")

	require.True(t, ok)
	require.NotNil(t, result.EssayRequired)
	assert.True(t, *result.EssayRequired)
	require.NotNil(t, result.Renewable)
	assert.False(t, *result.Renewable)
	assert.Nil(t, result.RecommendationRequired)
}

func TestRecord_SubjectAreaShapes(t *testing.T) {
	result, ok := Record(RawRecord{
		"title":        "Split Award",
		"subjectAreas": "Engineering, Computer Science",
	}, "dynamodb", "")
	require.True(t, ok)
	assert.Equal(t, []string{"Engineering", "Computer Science"}, result.SubjectAreas)

	result, ok = Record(RawRecord{
		"title":        "List Award",
		"subjectAreas": []interface{}{"Nursing", "Biology"},
	}, "bedrock-ai", "")
	require.True(t, ok)
	assert.Equal(t, []string{"Nursing", "Biology"}, result.SubjectAreas)
}

func TestRecords_DropsOnlyTitleless(t *testing.T) {
	raws := []RawRecord{
		{"title": "First"},
		{"description": "no title"},
		{"title": "Second"},
	}

	results := Records(raws, "scraped", "https://example.org")
	require.Len(t, results, 2)
	assert.Equal(t, "First", results[0].Title)
	assert.Equal(t, "Second", results[1].Title)
}
