package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testValidator() *Validator {
	return New([]string{"collection", "entity", "segment"})
}

func TestValidateSearchQuery(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		limit   int
		offset  int
		page    int
		models  []string
		wantErr string
	}{
		{"defaults", 0, 0, 0, nil, ""},
		{"valid", 25, 50, 0, []string{"entity"}, ""},
		{"page instead of offset", 25, 0, 3, nil, ""},
		{"negative limit", -1, 0, 0, nil, "limit must be non-negative"},
		{"limit too large", 10001, 0, 0, nil, "limit must not exceed 10000"},
		{"negative offset", 0, -1, 0, nil, "offset must be non-negative"},
		{"negative page", 0, 0, -1, nil, "page must be non-negative"},
		{"offset and page", 0, 10, 2, nil, "specify either offset or page, not both"},
		{"unknown model", 0, 0, 0, []string{"nope"}, `unknown model "nope"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateSearchQuery(tt.limit, tt.offset, tt.page, tt.models)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSearchQueryJoinsErrors(t *testing.T) {
	err := testValidator().ValidateSearchQuery(-1, -1, 0, []string{"nope"})
	assert.ErrorContains(t, err, "limit must be non-negative")
	assert.ErrorContains(t, err, "offset must be non-negative")
	assert.ErrorContains(t, err, `unknown model "nope"`)
}

func TestValidateDocument(t *testing.T) {
	v := testValidator()

	assert.NoError(t, v.ValidateDocument("entity", "ddr-densho-10-1"))
	assert.ErrorContains(t, v.ValidateDocument("nope", "ddr-densho-10-1"), `unknown model "nope"`)
	assert.ErrorContains(t, v.ValidateDocument("entity", "  "), "document id is required")
}
