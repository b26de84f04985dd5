// internal/common/aws/comprehend.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
)

// ComprehendAPI covers the three detection facets the enricher runs.
type ComprehendAPI interface {
	DetectEntities(ctx context.Context, input *comprehend.DetectEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectEntitiesOutput, error)
	DetectKeyPhrases(ctx context.Context, input *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error)
	DetectSentiment(ctx context.Context, input *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

func NewComprehendClient(ctx context.Context, region string) (*comprehend.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return comprehend.NewFromConfig(cfg), nil
}
