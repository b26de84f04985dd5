// internal/models/criteria.go
package models

// SearchCriteria is the canonical filter set for one scholarship search.
// A nil pointer field means "no constraint"; it is never interpreted as
// false or zero. Adapters must preserve that distinction.
type SearchCriteria struct {
	SubjectAreas           []string       `json:"subjectAreas"`
	Keywords               string         `json:"keywords"`
	AcademicLevel          *string        `json:"academicLevel"`
	TargetType             *string        `json:"targetType"`
	Gender                 *string        `json:"gender"`
	Ethnicity              *string        `json:"ethnicity"`
	GeographicRestrictions *string        `json:"geographicRestrictions"`
	MinimumGPA             *float64       `json:"minimumGPA"`
	EssayRequired          *bool          `json:"essayRequired"`
	RecommendationRequired *bool          `json:"recommendationRequired"`
	AmountRange            *AmountRange   `json:"amountRange,omitempty"`
	DeadlineRange          *DeadlineRange `json:"deadlineRange,omitempty"`
}

type AmountRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DeadlineRange bounds the application deadline as ISO dates (YYYY-MM-DD).
type DeadlineRange struct {
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

// IsEmpty reports whether no constraint at all was supplied. The
// aggregator's default-listing fallback is allowed only in that case.
func (c *SearchCriteria) IsEmpty() bool {
	if c == nil {
		return true
	}
	return len(c.SubjectAreas) == 0 &&
		c.Keywords == "" &&
		c.AcademicLevel == nil &&
		c.TargetType == nil &&
		c.Gender == nil &&
		c.Ethnicity == nil &&
		c.GeographicRestrictions == nil &&
		c.MinimumGPA == nil &&
		c.EssayRequired == nil &&
		c.RecommendationRequired == nil &&
		c.AmountRange == nil &&
		c.DeadlineRange == nil
}

// Option lists mirrored from the scholarship catalog. Criteria validation
// checks enum-like fields against these.

var EducationLevels = []string{
	"High School",
	"Undergraduate",
	"Graduate",
	"High School Junior",
	"High School Senior",
	"College Freshman",
	"College Sophomore",
	"College Junior",
	"College Senior",
	"Graduate Student",
}

var TargetTypes = []string{"Merit", "Need", "Both"}

var Genders = []string{"Male", "Female", "Non-Binary"}

var Ethnicities = []string{
	"Asian/Pacific Islander",
	"Black/African American",
	"Hispanic/Latino",
	"White/Caucasian",
	"Native American/Alaska Native",
	"Native Hawaiian/Pacific Islander",
	"Middle Eastern/North African",
	"South Asian",
	"East Asian",
	"Southeast Asian",
	"Other",
}
