package validator

import (
	"errors"
	"fmt"
	"strings"
)

// Validator validates caller-facing search and indexing inputs.
type Validator struct {
	knownModels map[string]bool
}

func New(models []string) *Validator {
	known := make(map[string]bool, len(models))
	for _, m := range models {
		known[m] = true
	}
	return &Validator{knownModels: known}
}

// ValidateSearchQuery validates search request parameters.
func (v *Validator) ValidateSearchQuery(limit, offset, page int, models []string) error {
	var errs []string
	if limit < 0 {
		errs = append(errs, "limit must be non-negative")
	}
	if limit > 10000 {
		errs = append(errs, "limit must not exceed 10000")
	}
	if offset < 0 {
		errs = append(errs, "offset must be non-negative")
	}
	if page < 0 {
		errs = append(errs, "page must be non-negative")
	}
	if offset != 0 && page != 0 {
		errs = append(errs, "specify either offset or page, not both")
	}
	for _, m := range models {
		if !v.knownModels[m] {
			errs = append(errs, fmt.Sprintf("unknown model %q", m))
		}
	}
	if len(errs) > 0 {
		return errors.New("validation: " + strings.Join(errs, "; "))
	}
	return nil
}

// ValidateDocument validates a raw document post.
func (v *Validator) ValidateDocument(model, documentID string) error {
	var errs []string
	if !v.knownModels[model] {
		errs = append(errs, fmt.Sprintf("unknown model %q", model))
	}
	if strings.TrimSpace(documentID) == "" {
		errs = append(errs, "document id is required")
	}
	if len(errs) > 0 {
		return errors.New("validation: " + strings.Join(errs, "; "))
	}
	return nil
}
