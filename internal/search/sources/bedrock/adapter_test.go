package bedrock

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

type fakeBedrock struct {
	input     *bedrockruntime.InvokeModelInput
	replyText string
	err       error
}

func (f *fakeBedrock) InvokeModel(ctx context.Context, input *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	body, _ := json.Marshal(map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": f.replyText},
		},
	})
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

func testAdapter(t *testing.T, fake *fakeBedrock) *Adapter {
	cfg := config.BedrockConfig{
		ModelID:     "anthropic.claude-3-haiku-20240307-v1:0",
		MaxTokens:   4000,
		Temperature: 0.7,
	}
	return NewAdapter(fake, cfg, logger.NewTestLogger(t))
}

func strPtr(s string) *string { return &s }

func TestSearch_ParsesCleanJSONArray(t *testing.T) {
	fake := &fakeBedrock{
		replyText: `[{"title":"STEM Award","description":"For STEM majors","amount":"$2000"}]`,
	}
	a := testAdapter(t, fake)

	results, err := a.Search(context.Background(), &models.SearchCriteria{Keywords: "stem"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "STEM Award", results[0].Title)
	assert.Equal(t, models.SourceBedrockAI, results[0].Source)
}

func TestSearch_ParsesFencedJSON(t *testing.T) {
	fake := &fakeBedrock{
		replyText: "Here are some options:\n```json\n[{\"title\":\"Fenced Award\"}]\n```\nGood luck!",
	}
	a := testAdapter(t, fake)

	results, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Fenced Award", results[0].Title)
}

func TestSearch_ParsesBracketDelimitedArray(t *testing.T) {
	fake := &fakeBedrock{
		replyText: `Sure! [{"title":"Bracket Award"}] hope this helps.`,
	}
	a := testAdapter(t, fake)

	results, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Bracket Award", results[0].Title)
}

func TestSearch_ParsesEnvelopeObject(t *testing.T) {
	fake := &fakeBedrock{
		replyText: `{"scholarships":[{"title":"Wrapped Award"}]}`,
	}
	a := testAdapter(t, fake)

	results, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Wrapped Award", results[0].Title)
}

func TestSearch_MalformedReplyYieldsEmptyList(t *testing.T) {
	fake := &fakeBedrock{replyText: "Sorry, I cannot help."}
	a := testAdapter(t, fake)

	results, err := a.Search(context.Background(), &models.SearchCriteria{Keywords: "stem"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_PromptOmitsNullFields(t *testing.T) {
	fake := &fakeBedrock{replyText: "[]"}
	a := testAdapter(t, fake)

	crit := &models.SearchCriteria{
		SubjectAreas:  []string{"Engineering"},
		AcademicLevel: strPtr("Undergraduate"),
	}

	_, err := a.Search(context.Background(), crit)
	require.NoError(t, err)

	var req invokeRequest
	require.NoError(t, json.Unmarshal(fake.input.Body, &req))
	require.Len(t, req.Messages, 1)

	prompt := req.Messages[0].Content
	assert.Contains(t, prompt, "Subject areas: Engineering")
	assert.Contains(t, prompt, "Academic level: Undergraduate")
	assert.NotContains(t, prompt, "null")
	assert.NotContains(t, prompt, "Gender:")
	assert.NotContains(t, prompt, "GPA:")
}

func TestSearch_InvokePayloadShape(t *testing.T) {
	fake := &fakeBedrock{replyText: "[]"}
	a := testAdapter(t, fake)

	_, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.NoError(t, err)

	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", *fake.input.ModelId)
	assert.Equal(t, "application/json", *fake.input.ContentType)

	var req invokeRequest
	require.NoError(t, json.Unmarshal(fake.input.Body, &req))
	assert.Equal(t, anthropicVersion, req.AnthropicVersion)
	assert.Equal(t, 4000, req.MaxTokens)
	assert.Equal(t, 0.7, req.Temperature)
}

func TestSearch_UpstreamErrorPropagatesAsAdapterFailure(t *testing.T) {
	fake := &fakeBedrock{err: assert.AnError}
	a := testAdapter(t, fake)

	_, err := a.Search(context.Background(), &models.SearchCriteria{})
	require.Error(t, err)
}
