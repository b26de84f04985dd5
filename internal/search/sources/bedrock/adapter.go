// internal/search/sources/bedrock/adapter.go

// Package bedrock implements the generative-recommendation source
// adapter. A malformed model reply is an expected condition and yields an
// empty contribution, never an error.
package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

const anthropicVersion = "bedrock-2023-05-31"

type Adapter struct {
	client aws.BedrockAPI
	cfg    config.BedrockConfig
	logger logger.Logger
}

func NewAdapter(client aws.BedrockAPI, cfg config.BedrockConfig, log logger.Logger) *Adapter {
	return &Adapter{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "bedrock-adapter"}),
	}
}

func (a *Adapter) Name() string {
	return models.SourceBedrockAI
}

func (a *Adapter) BaseURL() string {
	return ""
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type invokeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (a *Adapter) Search(ctx context.Context, crit *models.SearchCriteria) ([]models.ScholarshipResult, error) {
	prompt := buildPrompt(crit)

	body, err := json.Marshal(invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        a.cfg.MaxTokens,
		Temperature:      a.cfg.Temperature,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, errors.NewAdapterFailureError(a.Name(), err)
	}

	out, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     awssdk.String(a.cfg.ModelID),
		ContentType: awssdk.String("application/json"),
		Accept:      awssdk.String("application/json"),
		Body:        body,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.NewUpstreamTimeoutError(a.Name())
		}
		return nil, errors.NewAdapterFailureError(a.Name(), err)
	}

	var resp invokeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, errors.NewParseFailureError(a.Name(), err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "" || block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	records := extractRecords(text.String())
	if records == nil {
		a.logger.Warn("model reply contained no parseable scholarship list", map[string]interface{}{
			"replyLength": text.Len(),
		})
		return []models.ScholarshipResult{}, nil
	}

	return normalize.Records(records, a.Name(), a.BaseURL()), nil
}

// buildPrompt renders only the non-null criteria fields; unset filters
// are omitted entirely rather than rendered as "null".
func buildPrompt(crit *models.SearchCriteria) string {
	var lines []string

	if crit != nil {
		if len(crit.SubjectAreas) > 0 {
			lines = append(lines, "Subject areas: "+strings.Join(crit.SubjectAreas, ", "))
		}
		if crit.Keywords != "" {
			lines = append(lines, "Keywords: "+crit.Keywords)
		}
		if crit.AcademicLevel != nil && *crit.AcademicLevel != "" {
			lines = append(lines, "Academic level: "+*crit.AcademicLevel)
		}
		if crit.TargetType != nil && *crit.TargetType != "" {
			lines = append(lines, "Scholarship type: "+*crit.TargetType)
		}
		if crit.Gender != nil && *crit.Gender != "" {
			lines = append(lines, "Gender: "+*crit.Gender)
		}
		if crit.Ethnicity != nil && *crit.Ethnicity != "" {
			lines = append(lines, "Ethnicity: "+*crit.Ethnicity)
		}
		if crit.GeographicRestrictions != nil && *crit.GeographicRestrictions != "" {
			lines = append(lines, "Location: "+*crit.GeographicRestrictions)
		}
		if crit.MinimumGPA != nil {
			lines = append(lines, fmt.Sprintf("GPA: %.2f", *crit.MinimumGPA))
		}
		if crit.EssayRequired != nil {
			lines = append(lines, "Essay required: "+boolWord(*crit.EssayRequired))
		}
		if crit.RecommendationRequired != nil {
			lines = append(lines, "Recommendation letters required: "+boolWord(*crit.RecommendationRequired))
		}
	}

	profile := "No specific preferences were provided."
	if len(lines) > 0 {
		profile = strings.Join(lines, "\n")
	}

	return "You are a scholarship advisor. Based on the following student profile, " +
		"recommend real scholarships the student is likely eligible for.\n\n" +
		"Student profile:\n" + profile + "\n\n" +
		"Respond ONLY with a JSON array of scholarship objects. Each object must have " +
		"the fields: title, description, organization, amount, deadline, eligibility, url. " +
		"Do not include any text outside the JSON array."
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// extractRecords is the defensive parse ladder: strict JSON first, then
// markdown-fenced JSON, then bracket-delimited array, then a lone object.
// nil means every rung failed.
func extractRecords(text string) []normalize.RawRecord {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	if records := tryParse(text); records != nil {
		return records
	}

	if fenced := extractFenced(text); fenced != "" {
		if records := tryParse(fenced); records != nil {
			return records
		}
	}

	if start, end := strings.Index(text, "["), strings.LastIndex(text, "]"); start >= 0 && end > start {
		if records := tryParse(text[start : end+1]); records != nil {
			return records
		}
	}

	if start, end := strings.Index(text, "{"), strings.LastIndex(text, "}"); start >= 0 && end > start {
		if records := tryParse(text[start : end+1]); records != nil {
			return records
		}
	}

	return nil
}

func tryParse(text string) []normalize.RawRecord {
	var list []normalize.RawRecord
	if err := json.Unmarshal([]byte(text), &list); err == nil {
		return list
	}

	// Some replies wrap the list in an envelope object, or return a
	// single scholarship object.
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil
	}

	for _, key := range []string{"scholarships", "results", "recommendations"} {
		if nested, ok := obj[key].([]interface{}); ok {
			records := make([]normalize.RawRecord, 0, len(nested))
			for _, item := range nested {
				if m, ok := item.(map[string]interface{}); ok {
					records = append(records, normalize.RawRecord(m))
				}
			}
			return records
		}
	}

	if _, ok := obj["title"]; ok {
		return []normalize.RawRecord{normalize.RawRecord(obj)}
	}

	return nil
}

func extractFenced(text string) string {
	for _, marker := range []string{"```json", "```"} {
		start := strings.Index(text, marker)
		if start < 0 {
			continue
		}
		rest := text[start+len(marker):]
		end := strings.Index(rest, "```")
		if end < 0 {
			continue
		}
		return strings.TrimSpace(rest[:end])
	}
	return ""
}
