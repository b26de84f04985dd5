// cmd/tools/deadline-reminder/main.go

// deadline-reminder publishes a digest of scholarships whose deadlines
// fall within the next N days to an SNS topic. Intended to run on a
// schedule (cron / EventBridge).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
	"scholarship-workers/internal/search/sources/dynamo"
)

func main() {
	days := flag.Int("days", 14, "Deadline window in days")
	limit := flag.Int("limit", 50, "Maximum scholarships in the digest")
	topicARN := flag.String("topic-arn", os.Getenv("REMINDER_TOPIC_ARN"), "SNS topic ARN for the digest")
	dryRun := flag.Bool("dry-run", false, "Print the digest instead of publishing")
	flag.Parse()

	if *topicARN == "" && !*dryRun {
		fmt.Println("Error: -topic-arn (or REMINDER_TOPIC_ARN) is required unless -dry-run is set.")
		flag.Usage()
		os.Exit(1)
	}

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dynamoClient, err := aws.NewDynamoDBClient(ctx, cfg.AWS.Region)
	if err != nil {
		fmt.Printf("Error creating DynamoDB client: %v\n", err)
		os.Exit(1)
	}
	store := dynamo.NewStore(dynamoClient, cfg.AWS.DynamoDB, log)

	records, err := store.DueWithinDays(ctx, *days, *limit)
	if err != nil {
		fmt.Printf("Error querying upcoming deadlines: %v\n", err)
		os.Exit(1)
	}

	results := normalize.Records(records, models.SourceDynamoDB, "")
	if len(results) == 0 {
		fmt.Printf("No scholarships due within %d days.\n", *days)
		return
	}

	digest := buildDigest(results, *days)
	if *dryRun {
		fmt.Println(digest)
		return
	}

	snsClient, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
	if err != nil {
		fmt.Printf("Error creating SNS client: %v\n", err)
		os.Exit(1)
	}

	out, err := snsClient.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(*topicARN),
		Subject:  awssdk.String(fmt.Sprintf("Scholarship deadlines: next %d days", *days)),
		Message:  awssdk.String(digest),
	})
	if err != nil {
		fmt.Printf("Error publishing digest: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Published digest of %d scholarships (message id %s)\n", len(results), awssdk.ToString(out.MessageId))
}

func buildDigest(results []models.ScholarshipResult, days int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d scholarship(s) with deadlines in the next %d days:\n\n", len(results), days)
	for _, r := range results {
		fmt.Fprintf(&b, "- %s", r.Title)
		if r.Deadline != "" {
			fmt.Fprintf(&b, " (deadline %s)", r.Deadline)
		}
		if r.Amount != "" {
			fmt.Fprintf(&b, ", %s", r.Amount)
		}
		if r.URL != "" {
			fmt.Fprintf(&b, "\n  %s", r.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
