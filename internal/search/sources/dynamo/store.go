// internal/search/sources/dynamo/store.go

// Package dynamo implements the structured-store source adapter and the
// scholarship CRUD operations over the DynamoDB table.
package dynamo

import (
	"context"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"scholarship-workers/internal/common/aws"
	"scholarship-workers/internal/common/config"
	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/common/logger"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

// scanFallbackLimit bounds the full-table pass used when no criterion is
// selective enough to pick an index.
const scanFallbackLimit = 50

type Store struct {
	client aws.DynamoDBAPI
	cfg    config.DynamoDBConfig
	logger logger.Logger
}

func NewStore(client aws.DynamoDBAPI, cfg config.DynamoDBConfig, log logger.Logger) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "dynamo-store"}),
	}
}

// scholarshipItem is the stored row shape. Booleans are persisted as
// "true"/"false" strings and amounts as both the freeform display string
// and numeric bounds when parseable, matching the existing table data.
type scholarshipItem struct {
	ID                     string   `dynamodbav:"id"`
	Title                  string   `dynamodbav:"title"`
	Description            string   `dynamodbav:"description,omitempty"`
	Organization           string   `dynamodbav:"organization,omitempty"`
	Amount                 string   `dynamodbav:"amount,omitempty"`
	AmountMin              *float64 `dynamodbav:"amountMin,omitempty"`
	AmountMax              *float64 `dynamodbav:"amountMax,omitempty"`
	Deadline               string   `dynamodbav:"deadline,omitempty"`
	Eligibility            string   `dynamodbav:"eligibility,omitempty"`
	Gender                 string   `dynamodbav:"gender,omitempty"`
	Ethnicity              string   `dynamodbav:"ethnicity,omitempty"`
	AcademicLevel          string   `dynamodbav:"academicLevel,omitempty"`
	MinimumGPA             *float64 `dynamodbav:"minimumGPA,omitempty"`
	SubjectAreas           string   `dynamodbav:"subjectAreas,omitempty"`
	EssayRequired          string   `dynamodbav:"essayRequired,omitempty"`
	RecommendationRequired string   `dynamodbav:"recommendationRequired,omitempty"`
	Renewable              string   `dynamodbav:"renewable,omitempty"`
	GeographicRestrictions string   `dynamodbav:"geographicRestrictions,omitempty"`
	SearchText             string   `dynamodbav:"searchText,omitempty"`
	URL                    string   `dynamodbav:"url,omitempty"`
	Active                 string   `dynamodbav:"active"`
	CreatedAt              string   `dynamodbav:"createdAt"`
	UpdatedAt              string   `dynamodbav:"updatedAt"`
}

// StoreScholarship validates, assigns an id, and persists one record.
func (s *Store) StoreScholarship(ctx context.Context, result models.ScholarshipResult) (string, error) {
	if strings.TrimSpace(result.Title) == "" {
		return "", errors.NewValidationFailedError("scholarship title is required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item := scholarshipItem{
		ID:                     uuid.New().String(),
		Title:                  result.Title,
		Description:            result.Description,
		Organization:           result.Organization,
		Amount:                 result.Amount,
		Deadline:               result.Deadline,
		Eligibility:            result.Eligibility,
		Gender:                 result.Gender,
		Ethnicity:              result.Ethnicity,
		AcademicLevel:          result.AcademicLevel,
		MinimumGPA:             result.AcademicGPA,
		SubjectAreas:           strings.Join(result.SubjectAreas, ", "),
		EssayRequired:          encodeBool(result.EssayRequired),
		RecommendationRequired: encodeBool(result.RecommendationRequired),
		Renewable:              encodeBool(result.Renewable),
		GeographicRestrictions: result.GeographicRestrictions,
		SearchText:             searchText(result),
		URL:                    result.URL,
		Active:                 "true",
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	item.AmountMin, item.AmountMax = amountBounds(result.Amount)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return "", errors.NewStoreFailureError("put", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: awssdk.String(s.cfg.Table),
		Item:      av,
	})
	if err != nil {
		return "", errors.NewStoreFailureError("put", err)
	}

	s.logger.Info("scholarship stored", map[string]interface{}{
		"scholarshipId": item.ID,
		"title":         item.Title,
	})
	return item.ID, nil
}

// GetScholarshipByID fetches one record as a raw row.
func (s *Store) GetScholarshipByID(ctx context.Context, id string) (normalize.RawRecord, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: awssdk.String(s.cfg.Table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return nil, errors.NewStoreFailureError("get", err)
	}
	if out.Item == nil {
		return nil, errors.NewScholarshipNotFoundError(id)
	}

	var record map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &record); err != nil {
		return nil, errors.NewStoreFailureError("get", err)
	}
	return record, nil
}

// UpdateScholarship applies a partial update and bumps updatedAt. The id,
// createdAt, and active fields cannot be changed through this path.
func (s *Store) UpdateScholarship(ctx context.Context, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return errors.NewValidationFailedError("no fields to update")
	}

	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	var sets []string

	i := 0
	for field, value := range updates {
		if field == "id" || field == "createdAt" || field == "active" {
			continue
		}
		nameKey := fmt.Sprintf("#f%d", i)
		valueKey := fmt.Sprintf(":v%d", i)
		av, err := attributevalue.Marshal(value)
		if err != nil {
			return errors.NewStoreFailureError("update", err)
		}
		names[nameKey] = field
		values[valueKey] = av
		sets = append(sets, fmt.Sprintf("%s = %s", nameKey, valueKey))
		i++
	}
	if len(sets) == 0 {
		return errors.NewValidationFailedError("no updatable fields supplied")
	}

	names["#updatedAt"] = "updatedAt"
	values[":updatedAt"] = &types.AttributeValueMemberS{
		Value: time.Now().UTC().Format(time.RFC3339),
	}
	sets = append(sets, "#updatedAt = :updatedAt")

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: awssdk.String(s.cfg.Table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
		UpdateExpression:          awssdk.String("SET " + strings.Join(sets, ", ")),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ConditionExpression:       awssdk.String("attribute_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if stderrors.As(err, &ccf) {
			return errors.NewScholarshipNotFoundError(id)
		}
		return errors.NewStoreFailureError("update", err)
	}
	return nil
}

// DeleteScholarship removes one record.
func (s *Store) DeleteScholarship(ctx context.Context, id string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: awssdk.String(s.cfg.Table),
		Key: map[string]types.AttributeValue{
			"id": &types.AttributeValueMemberS{Value: id},
		},
	})
	if err != nil {
		return errors.NewStoreFailureError("delete", err)
	}
	return nil
}

// ListActive returns a bounded page of active records. It backs both the
// aggregator's empty-criteria fallback and the store's index-less path.
func (s *Store) ListActive(ctx context.Context, limit int) ([]normalize.RawRecord, error) {
	if limit <= 0 || limit > scanFallbackLimit {
		limit = scanFallbackLimit
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        awssdk.String(s.cfg.Table),
		FilterExpression: awssdk.String("active = :active"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: "true"},
		},
		Limit: awssdk.Int32(int32(limit)),
	})
	if err != nil {
		return nil, errors.NewStoreFailureError("scan", err)
	}

	return unmarshalRecords(out.Items)
}

// SearchByDeadlineRange queries the deadline index for active records due
// inside [start, end] (ISO dates).
func (s *Store) SearchByDeadlineRange(ctx context.Context, start, end string, limit int) ([]normalize.RawRecord, error) {
	if limit <= 0 || limit > scanFallbackLimit {
		limit = scanFallbackLimit
	}

	out, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              awssdk.String(s.cfg.Table),
		IndexName:              awssdk.String(s.cfg.DeadlineIndex),
		KeyConditionExpression: awssdk.String("active = :active AND deadline BETWEEN :start AND :end"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":active": &types.AttributeValueMemberS{Value: "true"},
			":start":  &types.AttributeValueMemberS{Value: start},
			":end":    &types.AttributeValueMemberS{Value: end},
		},
		Limit: awssdk.Int32(int32(limit)),
	})
	if err != nil {
		return nil, errors.NewStoreFailureError("deadline-query", err)
	}

	return unmarshalRecords(out.Items)
}

// DueWithinDays lists active records whose deadline falls inside the next
// N days.
func (s *Store) DueWithinDays(ctx context.Context, days, limit int) ([]normalize.RawRecord, error) {
	now := time.Now().UTC()
	start := now.Format("2006-01-02")
	end := now.AddDate(0, 0, days).Format("2006-01-02")
	return s.SearchByDeadlineRange(ctx, start, end, limit)
}

// searchText builds the lowercased blob that keyword contains() filters
// run against, since DynamoDB contains() is case-sensitive.
func searchText(result models.ScholarshipResult) string {
	var parts []string
	for _, p := range []string{result.Title, result.Description, result.Eligibility} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func encodeBool(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}

// amountBounds extracts numeric bounds from a freeform amount string so
// range filters can run against stored records. "Amount varies" and
// similar yield no bounds.
func amountBounds(amount string) (*float64, *float64) {
	cleaned := strings.NewReplacer("$", "", ",", "", "+", "").Replace(amount)
	fields := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !(r >= '0' && r <= '9') && r != '.'
	})

	var nums []float64
	for _, f := range fields {
		if n, err := strconv.ParseFloat(f, 64); err == nil {
			nums = append(nums, n)
		}
	}

	switch len(nums) {
	case 0:
		return nil, nil
	case 1:
		return &nums[0], &nums[0]
	default:
		min, max := nums[0], nums[0]
		for _, n := range nums[1:] {
			if n < min {
				min = n
			}
			if n > max {
				max = n
			}
		}
		return &min, &max
	}
}

func unmarshalRecords(items []map[string]types.AttributeValue) ([]normalize.RawRecord, error) {
	var rows []map[string]interface{}
	if err := attributevalue.UnmarshalListOfMaps(items, &rows); err != nil {
		return nil, errors.NewStoreFailureError("unmarshal", err)
	}

	records := make([]normalize.RawRecord, len(rows))
	for i, row := range rows {
		records[i] = normalize.RawRecord(row)
	}
	return records, nil
}
