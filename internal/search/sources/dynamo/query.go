// internal/search/sources/dynamo/query.go
package dynamo

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"
	"scholarship-workers/internal/search/normalize"
)

// indexedQuery is the single key-condition query plus post-filter
// predicates built from one criteria set. The store supports exactly one
// index per query, so everything beyond the chosen key becomes a filter.
type indexedQuery struct {
	indexName    string
	keyCondition string
	filters      []string
	names        map[string]string
	values       map[string]types.AttributeValue
}

// SearchScholarships translates the criteria into one indexed query. The
// most selective available index wins, in the fixed priority order
// academic level, subject area, geographic restriction, ethnicity,
// gender, GPA. With nothing selective enough it degrades to the bounded
// active scan with only amount and GPA filters.
func (s *Store) SearchScholarships(ctx context.Context, crit *models.SearchCriteria, limit int) ([]normalize.RawRecord, error) {
	if limit <= 0 || limit > scanFallbackLimit {
		limit = scanFallbackLimit
	}

	q := s.buildQuery(crit)
	if q == nil {
		return s.scanFallback(ctx, crit, limit)
	}

	input := &dynamodb.QueryInput{
		TableName:                 awssdk.String(s.cfg.Table),
		IndexName:                 awssdk.String(q.indexName),
		KeyConditionExpression:    awssdk.String(q.keyCondition),
		ExpressionAttributeValues: q.values,
		Limit:                     awssdk.Int32(int32(limit)),
	}
	if len(q.names) > 0 {
		input.ExpressionAttributeNames = q.names
	}
	if len(q.filters) > 0 {
		input.FilterExpression = awssdk.String(strings.Join(q.filters, " AND "))
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		// A failed indexed query must not degrade to the scan, which
		// ignores most criteria. The aggregator absorbs the error as a
		// zero contribution from this source.
		s.logger.WithError(err).Warn("indexed query failed", map[string]interface{}{
			"index": q.indexName,
		})
		return nil, errors.NewStoreFailureError("query", err)
	}

	return unmarshalRecords(out.Items)
}

func (s *Store) buildQuery(crit *models.SearchCriteria) *indexedQuery {
	if crit == nil {
		return nil
	}

	q := &indexedQuery{
		names:  map[string]string{},
		values: map[string]types.AttributeValue{},
	}

	keyField := ""
	switch {
	case crit.AcademicLevel != nil && *crit.AcademicLevel != "":
		q.indexName = s.cfg.LevelIndex
		q.keyCondition = "academicLevel = :key"
		q.values[":key"] = &types.AttributeValueMemberS{Value: *crit.AcademicLevel}
		keyField = "academicLevel"

	case len(crit.SubjectAreas) > 0:
		// The index is keyed on the primary subject; the rest of the
		// areas become contains() filters below.
		q.indexName = s.cfg.SubjectIndex
		q.keyCondition = "primarySubject = :key"
		q.values[":key"] = &types.AttributeValueMemberS{Value: crit.SubjectAreas[0]}
		keyField = "primarySubject"

	case crit.GeographicRestrictions != nil && *crit.GeographicRestrictions != "":
		q.indexName = s.cfg.StateIndex
		q.keyCondition = "geographicRestrictions = :key"
		q.values[":key"] = &types.AttributeValueMemberS{Value: *crit.GeographicRestrictions}
		keyField = "geographicRestrictions"

	case crit.Ethnicity != nil && *crit.Ethnicity != "":
		q.indexName = s.cfg.EthnicityIndex
		q.keyCondition = "ethnicity = :key"
		q.values[":key"] = &types.AttributeValueMemberS{Value: *crit.Ethnicity}
		keyField = "ethnicity"

	case crit.Gender != nil && *crit.Gender != "":
		q.indexName = s.cfg.GenderIndex
		q.keyCondition = "gender = :key"
		q.values[":key"] = &types.AttributeValueMemberS{Value: *crit.Gender}
		keyField = "gender"

	case crit.MinimumGPA != nil:
		// GPA index is keyed on active with the GPA requirement as the
		// sort key, so the condition can be a range.
		q.indexName = s.cfg.GPAIndex
		q.keyCondition = "active = :key AND minimumGPA <= :gpa"
		q.values[":key"] = &types.AttributeValueMemberS{Value: "true"}
		q.values[":gpa"] = numberAV(*crit.MinimumGPA)
		keyField = "minimumGPA"

	default:
		return nil
	}

	s.appendFilters(q, crit, keyField)
	return q
}

// appendFilters encodes every remaining criterion as a post-filter
// predicate. Active-only is unconditional unless active already serves as
// the partition key.
func (s *Store) appendFilters(q *indexedQuery, crit *models.SearchCriteria, keyField string) {
	if keyField != "minimumGPA" {
		q.filters = append(q.filters, "active = :active")
		q.values[":active"] = &types.AttributeValueMemberS{Value: "true"}
	}

	if keyField != "academicLevel" && crit.AcademicLevel != nil && *crit.AcademicLevel != "" {
		q.filters = append(q.filters, "academicLevel = :level")
		q.values[":level"] = &types.AttributeValueMemberS{Value: *crit.AcademicLevel}
	}

	if len(crit.SubjectAreas) > 0 {
		// Subject areas live in one joined field, so matching any of
		// several requested areas needs contains(), not equality.
		areas := crit.SubjectAreas
		if keyField == "primarySubject" {
			areas = areas[1:]
		}
		var ors []string
		for i, area := range areas {
			placeholder := fmt.Sprintf(":subject%d", i)
			ors = append(ors, fmt.Sprintf("contains(subjectAreas, %s)", placeholder))
			q.values[placeholder] = &types.AttributeValueMemberS{Value: area}
		}
		if len(ors) == 1 {
			q.filters = append(q.filters, ors[0])
		} else if len(ors) > 1 {
			q.filters = append(q.filters, "("+strings.Join(ors, " OR ")+")")
		}
	}

	if keyField != "geographicRestrictions" && crit.GeographicRestrictions != nil && *crit.GeographicRestrictions != "" {
		q.filters = append(q.filters, "geographicRestrictions = :geo")
		q.values[":geo"] = &types.AttributeValueMemberS{Value: *crit.GeographicRestrictions}
	}

	if keyField != "ethnicity" && crit.Ethnicity != nil && *crit.Ethnicity != "" {
		q.filters = append(q.filters, "ethnicity = :ethnicity")
		q.values[":ethnicity"] = &types.AttributeValueMemberS{Value: *crit.Ethnicity}
	}

	if keyField != "gender" && crit.Gender != nil && *crit.Gender != "" {
		q.filters = append(q.filters, "gender = :gender")
		q.values[":gender"] = &types.AttributeValueMemberS{Value: *crit.Gender}
	}

	if keyField != "minimumGPA" && crit.MinimumGPA != nil {
		q.filters = append(q.filters, "(attribute_not_exists(minimumGPA) OR minimumGPA <= :gpa)")
		q.values[":gpa"] = numberAV(*crit.MinimumGPA)
	}

	if crit.EssayRequired != nil {
		q.filters = append(q.filters, "essayRequired = :essay")
		q.values[":essay"] = &types.AttributeValueMemberS{Value: boolString(*crit.EssayRequired)}
	}

	if crit.RecommendationRequired != nil {
		q.filters = append(q.filters, "recommendationRequired = :rec")
		q.values[":rec"] = &types.AttributeValueMemberS{Value: boolString(*crit.RecommendationRequired)}
	}

	if crit.TargetType != nil && *crit.TargetType != "" && *crit.TargetType != "Both" {
		q.filters = append(q.filters, "(targetType = :target OR targetType = :both)")
		q.values[":target"] = &types.AttributeValueMemberS{Value: *crit.TargetType}
		q.values[":both"] = &types.AttributeValueMemberS{Value: "Both"}
	}

	appendAmountFilters(q, crit)

	if crit.DeadlineRange != nil {
		if crit.DeadlineRange.StartDate != "" {
			q.filters = append(q.filters, "deadline >= :deadlineStart")
			q.values[":deadlineStart"] = &types.AttributeValueMemberS{Value: crit.DeadlineRange.StartDate}
		}
		if crit.DeadlineRange.EndDate != "" {
			q.filters = append(q.filters, "deadline <= :deadlineEnd")
			q.values[":deadlineEnd"] = &types.AttributeValueMemberS{Value: crit.DeadlineRange.EndDate}
		}
	}

	// contains() is case-sensitive, so keyword tokens run against the
	// lowercased searchText field written alongside each record. Rows
	// predating that field pass through and the scorer ranks them
	// downstream.
	for i, token := range strings.Fields(crit.Keywords) {
		placeholder := fmt.Sprintf(":kw%d", i)
		q.filters = append(q.filters, fmt.Sprintf(
			"(attribute_not_exists(searchText) OR contains(searchText, %s))", placeholder))
		q.values[placeholder] = &types.AttributeValueMemberS{Value: strings.ToLower(token)}
	}
}

// scanFallback is the bounded full-table pass: active records with only
// amount and GPA predicates applied.
func (s *Store) scanFallback(ctx context.Context, crit *models.SearchCriteria, limit int) ([]normalize.RawRecord, error) {
	filters := []string{"active = :active"}
	values := map[string]types.AttributeValue{
		":active": &types.AttributeValueMemberS{Value: "true"},
	}

	if crit != nil {
		if crit.MinimumGPA != nil {
			filters = append(filters, "(attribute_not_exists(minimumGPA) OR minimumGPA <= :gpa)")
			values[":gpa"] = numberAV(*crit.MinimumGPA)
		}
		q := &indexedQuery{values: values}
		appendAmountFilters(q, crit)
		filters = append(filters, q.filters...)
	}

	out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:                 awssdk.String(s.cfg.Table),
		FilterExpression:          awssdk.String(strings.Join(filters, " AND ")),
		ExpressionAttributeValues: values,
		Limit:                     awssdk.Int32(int32(limit)),
	})
	if err != nil {
		return nil, errors.NewStoreFailureError("scan", err)
	}

	return unmarshalRecords(out.Items)
}

func appendAmountFilters(q *indexedQuery, crit *models.SearchCriteria) {
	if crit == nil || crit.AmountRange == nil {
		return
	}
	if crit.AmountRange.Min != nil {
		q.filters = append(q.filters, "amountMax >= :amountMin")
		q.values[":amountMin"] = numberAV(*crit.AmountRange.Min)
	}
	if crit.AmountRange.Max != nil {
		q.filters = append(q.filters, "amountMin <= :amountMax")
		q.values[":amountMax"] = numberAV(*crit.AmountRange.Max)
	}
}

func numberAV(v float64) types.AttributeValue {
	return &types.AttributeValueMemberN{Value: fmt.Sprintf("%g", v)}
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
