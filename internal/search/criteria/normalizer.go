// internal/search/criteria/normalizer.go
package criteria

import (
	"encoding/json"
	"fmt"
	"strings"

	"scholarship-workers/internal/common/errors"
	"scholarship-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

// legacyFilterKeys are the flat top-level filter fields older callers sent
// before the searchCriteria envelope existed. A request may use either the
// canonical shape or the legacy shape, never both.
var legacyFilterKeys = []string{
	"subjectAreas",
	"keywords",
	"academicLevel",
	"targetType",
	"gender",
	"ethnicity",
	"geographicRestrictions",
	"minimumGPA",
	"essayRequired",
	"recommendationRequired",
	"amountRange",
	"deadlineRange",
}

// Normalizer turns a raw search request into a validated SearchCriteria
// plus the bounded result count.
type Normalizer struct {
	defaultMaxResults int
	maxResultsCap     int
}

func NewNormalizer(defaultMaxResults, maxResultsCap int) *Normalizer {
	if defaultMaxResults <= 0 {
		defaultMaxResults = 10
	}
	if maxResultsCap <= 0 {
		maxResultsCap = 50
	}
	return &Normalizer{
		defaultMaxResults: defaultMaxResults,
		maxResultsCap:     maxResultsCap,
	}
}

// Normalize validates and canonicalizes a raw request. It fails only with
// a VALIDATION_FAILED error; defaults are applied here and nowhere else.
func (n *Normalizer) Normalize(raw map[string]interface{}) (*models.SearchCriteria, int, error) {
	if raw == nil {
		return nil, 0, errors.NewValidationFailedError("search request is missing")
	}

	critMap, err := n.extractCriteriaObject(raw)
	if err != nil {
		return nil, 0, err
	}

	if err := validateAgainstSchema(critMap); err != nil {
		return nil, 0, err
	}

	crit, err := decodeCriteria(critMap)
	if err != nil {
		return nil, 0, err
	}

	maxResults := n.resolveMaxResults(raw["maxResults"])

	return crit, maxResults, nil
}

// extractCriteriaObject resolves the schema-version precedence: the
// canonical searchCriteria envelope wins, the legacy flat shape is
// migrated, and mixing the two is rejected rather than guessed at.
func (n *Normalizer) extractCriteriaObject(raw map[string]interface{}) (map[string]interface{}, error) {
	critRaw, hasCanonical := raw["searchCriteria"]
	legacyPresent := presentLegacyKeys(raw)

	switch {
	case hasCanonical && len(legacyPresent) > 0:
		return nil, errors.NewValidationFailedError(fmt.Sprintf(
			"request mixes searchCriteria with legacy top-level fields: %s",
			strings.Join(legacyPresent, ", ")))

	case hasCanonical:
		critMap, ok := critRaw.(map[string]interface{})
		if !ok {
			return nil, errors.NewValidationFailedError("searchCriteria must be an object")
		}
		return critMap, nil

	case len(legacyPresent) > 0:
		critMap := make(map[string]interface{}, len(legacyPresent))
		for _, key := range legacyPresent {
			critMap[key] = raw[key]
		}
		return critMap, nil

	default:
		return nil, errors.NewValidationFailedError("searchCriteria is required")
	}
}

func presentLegacyKeys(raw map[string]interface{}) []string {
	var present []string
	for _, key := range legacyFilterKeys {
		if _, ok := raw[key]; ok {
			present = append(present, key)
		}
	}
	return present
}

func validateAgainstSchema(critMap map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(criteriaSchema())
	documentLoader := gojsonschema.NewGoLoader(critMap)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewValidationFailedError(fmt.Sprintf("schema validation error: %s", err.Error()))
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return errors.NewValidationFailedError(strings.Join(msgs, "; "))
	}

	return nil
}

func decodeCriteria(critMap map[string]interface{}) (*models.SearchCriteria, error) {
	data, err := json.Marshal(critMap)
	if err != nil {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("criteria not serializable: %s", err.Error()))
	}

	var crit models.SearchCriteria
	if err := json.Unmarshal(data, &crit); err != nil {
		return nil, errors.NewValidationFailedError(fmt.Sprintf("criteria shape mismatch: %s", err.Error()))
	}

	crit.Keywords = strings.TrimSpace(crit.Keywords)

	cleaned := crit.SubjectAreas[:0]
	for _, area := range crit.SubjectAreas {
		if area = strings.TrimSpace(area); area != "" {
			cleaned = append(cleaned, area)
		}
	}
	crit.SubjectAreas = cleaned

	return &crit, nil
}

func (n *Normalizer) resolveMaxResults(raw interface{}) int {
	max := n.defaultMaxResults

	switch v := raw.(type) {
	case float64:
		max = int(v)
	case int:
		max = v
	case int64:
		max = int(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			max = int(i)
		}
	}

	if max <= 0 {
		max = n.defaultMaxResults
	}
	if max > n.maxResultsCap {
		max = n.maxResultsCap
	}
	return max
}
