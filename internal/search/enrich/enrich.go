// internal/search/enrich/enrich.go

// Package enrich runs the optional text-analysis pass over aggregated
// results. Analysis augments the response envelope; it never gates the
// result list.
package enrich

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
)

type Enricher struct {
	client aws.ComprehendAPI
	cfg    config.ComprehendConfig
	logger logger.Logger
}

func New(client aws.ComprehendAPI, cfg config.ComprehendConfig, log logger.Logger) *Enricher {
	return &Enricher{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "enricher"}),
	}
}

// Analyze concatenates the result text, truncates it to the capability's
// byte limit, and issues the three detection facets concurrently. A
// failed facet degrades to its neutral default; Analyze itself never
// fails. Empty input yields nil.
func (e *Enricher) Analyze(ctx context.Context, results []models.ScholarshipResult) *models.TextAnalysis {
	text := combinedText(results)
	if text == "" {
		return nil
	}
	text = TruncateBytes(text, e.cfg.MaxBytes)

	analysis := &models.TextAnalysis{
		Entities:   []models.Entity{},
		KeyPhrases: []models.KeyPhrase{},
		Sentiment:  models.Sentiment{Sentiment: "NEUTRAL"},
	}
	lang := types.LanguageCode(e.cfg.LanguageCode)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		out, err := e.client.DetectEntities(ctx, &comprehend.DetectEntitiesInput{
			Text:         awssdk.String(text),
			LanguageCode: lang,
		})
		if err != nil {
			e.logger.WithError(err).Warn("entity detection failed, using empty default", nil)
			return
		}
		entities := make([]models.Entity, 0, len(out.Entities))
		for _, ent := range out.Entities {
			entities = append(entities, models.Entity{
				Text:  awssdk.ToString(ent.Text),
				Type:  string(ent.Type),
				Score: float64(awssdk.ToFloat32(ent.Score)),
			})
		}
		analysis.Entities = entities
	}()

	go func() {
		defer wg.Done()
		out, err := e.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
			Text:         awssdk.String(text),
			LanguageCode: lang,
		})
		if err != nil {
			e.logger.WithError(err).Warn("key phrase detection failed, using empty default", nil)
			return
		}
		phrases := make([]models.KeyPhrase, 0, len(out.KeyPhrases))
		for _, kp := range out.KeyPhrases {
			phrases = append(phrases, models.KeyPhrase{
				Text:  awssdk.ToString(kp.Text),
				Score: float64(awssdk.ToFloat32(kp.Score)),
			})
		}
		analysis.KeyPhrases = phrases
	}()

	go func() {
		defer wg.Done()
		out, err := e.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
			Text:         awssdk.String(text),
			LanguageCode: lang,
		})
		if err != nil {
			e.logger.WithError(err).Warn("sentiment detection failed, using neutral default", nil)
			return
		}
		sentiment := models.Sentiment{Sentiment: string(out.Sentiment)}
		if out.SentimentScore != nil {
			sentiment.Scores = &models.SentimentScores{
				Positive: float64(awssdk.ToFloat32(out.SentimentScore.Positive)),
				Negative: float64(awssdk.ToFloat32(out.SentimentScore.Negative)),
				Neutral:  float64(awssdk.ToFloat32(out.SentimentScore.Neutral)),
				Mixed:    float64(awssdk.ToFloat32(out.SentimentScore.Mixed)),
			}
		}
		analysis.Sentiment = sentiment
	}()

	wg.Wait()
	return analysis
}

func combinedText(results []models.ScholarshipResult) string {
	var parts []string
	for _, r := range results {
		for _, field := range []string{r.Title, r.Description, r.Eligibility} {
			if field != "" {
				parts = append(parts, field)
			}
		}
	}
	return strings.Join(parts, " ")
}

// TruncateBytes cuts s to at most max bytes without splitting inside a
// multi-byte character.
func TruncateBytes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
