// internal/models/scholarship.go
package models

// Source identifiers. Every result carries exactly one of these (scrape
// results carry their site name). The trust order is used only as a
// ranking tiebreak, never added to the stored score.
const (
	SourceDynamoDB  = "dynamodb"
	SourceBedrockAI = "bedrock-ai"
)

// SourceTrust returns the tiebreak rank for a source: structured store
// results outrank generative results, which outrank scraped results.
func SourceTrust(source string) int {
	switch source {
	case SourceDynamoDB:
		return 3
	case SourceBedrockAI:
		return 2
	default:
		return 1
	}
}

// ScholarshipResult is the one canonical result shape every adapter's
// output is coerced into. Only Title and Source are required; everything
// else tolerates absence.
type ScholarshipResult struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	Organization           string   `json:"organization,omitempty"`
	Amount                 string   `json:"amount,omitempty"`
	Deadline               string   `json:"deadline,omitempty"`
	Eligibility            string   `json:"eligibility,omitempty"`
	Gender                 string   `json:"gender,omitempty"`
	Ethnicity              string   `json:"ethnicity,omitempty"`
	AcademicLevel          string   `json:"academicLevel,omitempty"`
	AcademicGPA            *float64 `json:"academicGPA,omitempty"`
	SubjectAreas           []string `json:"subjectAreas,omitempty"`
	EssayRequired          *bool    `json:"essayRequired,omitempty"`
	RecommendationRequired *bool    `json:"recommendationRequired,omitempty"`
	Renewable              *bool    `json:"renewable,omitempty"`
	GeographicRestrictions string   `json:"geographicRestrictions,omitempty"`
	Source                 string   `json:"source"`
	URL                    string   `json:"url,omitempty"`
	RelevanceScore         int      `json:"relevanceScore"`
}

// SearchResponse is the envelope returned for every non-validation-failed
// search, even when every adapter came back empty.
type SearchResponse struct {
	Scholarships    []ScholarshipResult `json:"scholarships"`
	TotalFound      int                 `json:"totalFound"`
	SearchTimestamp string              `json:"searchTimestamp"`
	Metadata        SearchMetadata      `json:"metadata"`
}

type SearchMetadata struct {
	SourcesUsed      []string      `json:"sourcesUsed"`
	ProcessingTimeMs int64         `json:"processingTimeMs"`
	Analysis         *TextAnalysis `json:"analysis,omitempty"`
}

// TextAnalysis carries the optional Comprehend enrichment. It augments the
// envelope; it never gates the result list.
type TextAnalysis struct {
	Entities   []Entity    `json:"entities"`
	KeyPhrases []KeyPhrase `json:"keyPhrases"`
	Sentiment  Sentiment   `json:"sentiment"`
}

type Entity struct {
	Text  string  `json:"text"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

type KeyPhrase struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

type Sentiment struct {
	Sentiment string           `json:"sentiment"`
	Scores    *SentimentScores `json:"sentimentScore,omitempty"`
}

type SentimentScores struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Mixed    float64 `json:"mixed"`
}

// ScrapeSite describes one external scholarship website we extract from.
type ScrapeSite struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	SearchURL string `json:"searchUrl"`
}
