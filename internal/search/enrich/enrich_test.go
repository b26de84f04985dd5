package enrich

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

type fakeComprehend struct {
	entitiesErr   error
	keyPhrasesErr error
	sentimentErr  error

	gotText string
}

func (f *fakeComprehend) DetectEntities(ctx context.Context, input *comprehend.DetectEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectEntitiesOutput, error) {
	f.gotText = awssdk.ToString(input.Text)
	if f.entitiesErr != nil {
		return nil, f.entitiesErr
	}
	return &comprehend.DetectEntitiesOutput{
		Entities: []types.Entity{
			{Text: awssdk.String("Montana"), Type: types.EntityTypeLocation, Score: awssdk.Float32(0.99)},
		},
	}, nil
}

func (f *fakeComprehend) DetectKeyPhrases(ctx context.Context, input *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error) {
	if f.keyPhrasesErr != nil {
		return nil, f.keyPhrasesErr
	}
	return &comprehend.DetectKeyPhrasesOutput{
		KeyPhrases: []types.KeyPhrase{
			{Text: awssdk.String("nursing students"), Score: awssdk.Float32(0.95)},
		},
	}, nil
}

func (f *fakeComprehend) DetectSentiment(ctx context.Context, input *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error) {
	if f.sentimentErr != nil {
		return nil, f.sentimentErr
	}
	return &comprehend.DetectSentimentOutput{
		Sentiment: types.SentimentTypePositive,
		SentimentScore: &types.SentimentScore{
			Positive: awssdk.Float32(0.8),
			Neutral:  awssdk.Float32(0.2),
		},
	}, nil
}

func testEnricher(t *testing.T, fake *fakeComprehend) *Enricher {
	cfg := config.ComprehendConfig{LanguageCode: "en", MaxBytes: 4500}
	return New(fake, cfg, logger.NewTestLogger(t))
}

func someResults() []models.ScholarshipResult {
	return []models.ScholarshipResult{
		{Title: "Rural Nursing Award", Description: "Supports nursing students", Eligibility: "Montana residents"},
	}
}

func TestAnalyze_AllFacets(t *testing.T) {
	fake := &fakeComprehend{}
	analysis := testEnricher(t, fake).Analyze(context.Background(), someResults())

	require.NotNil(t, analysis)
	require.Len(t, analysis.Entities, 1)
	assert.Equal(t, "Montana", analysis.Entities[0].Text)
	require.Len(t, analysis.KeyPhrases, 1)
	assert.Equal(t, "POSITIVE", analysis.Sentiment.Sentiment)
	require.NotNil(t, analysis.Sentiment.Scores)

	assert.Contains(t, fake.gotText, "Rural Nursing Award")
	assert.Contains(t, fake.gotText, "Montana residents")
}

func TestAnalyze_FailedFacetDegradesToDefault(t *testing.T) {
	fake := &fakeComprehend{sentimentErr: assert.AnError, entitiesErr: assert.AnError}
	analysis := testEnricher(t, fake).Analyze(context.Background(), someResults())

	require.NotNil(t, analysis)
	assert.Empty(t, analysis.Entities)
	assert.Equal(t, "NEUTRAL", analysis.Sentiment.Sentiment)
	assert.Nil(t, analysis.Sentiment.Scores)
	// The healthy facet still contributes.
	assert.Len(t, analysis.KeyPhrases, 1)
}

func TestAnalyze_EmptyResultsSkipsAnalysis(t *testing.T) {
	fake := &fakeComprehend{}
	analysis := testEnricher(t, fake).Analyze(context.Background(), nil)

	assert.Nil(t, analysis)
	assert.Empty(t, fake.gotText)
}

func TestTruncateBytes(t *testing.T) {
	t.Run("short text untouched", func(t *testing.T) {
		assert.Equal(t, "hello", TruncateBytes("hello", 100))
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		long := strings.Repeat("scholarship ", 1000)
		got := TruncateBytes(long, 4500)
		assert.LessOrEqual(t, len(got), 4500)
	})

	t.Run("never splits a multi-byte character", func(t *testing.T) {
		// é is two bytes; every cut point must remain valid UTF-8.
		text := strings.Repeat("é", 100)
		for max := 1; max <= 12; max++ {
			got := TruncateBytes(text, max)
			assert.True(t, utf8.ValidString(got), "max=%d produced invalid UTF-8", max)
			assert.LessOrEqual(t, len(got), max)
		}
	})
}
