package service

// Search configuration for the repository doctypes. These mirror the index
// mappings in internal/docstore.

// SearchModels are the doctypes searched by default.
func SearchModels() []string {
	return []string{"collection", "entity", "segment"}
}

// SearchParamWhitelist lists the parameter names recognized in a URL query.
// Anything else is dropped before the query is assembled.
func SearchParamWhitelist() []string {
	return []string{
		"fulltext",
		"match_all",
		"models",
		"parent",
		"creators",
		"persons",
		"topics",
		"facility",
		"format",
		"genre",
		"rights",
		"status",
		"public",
	}
}

// SearchIncludeFields are returned with each hit and targeted by fulltext
// queries. Fulltext only runs against text fields; non-text fields here can
// silently produce empty aggregations, not errors.
func SearchIncludeFields() []string {
	return []string{
		"id",
		"model",
		"status",
		"public",
		"title",
		"description",
		"contributor",
		"format",
		"genre",
		"links_html",
		"links_json",
		"links_img",
		"links_thumb",
		"links_children",
	}
}

// SearchNestedFields are relation fields whose filter form is the
// denormalized <field>_id scalar.
func SearchNestedFields() []string {
	return []string{"topics", "facility"}
}

// SearchAggFields maps aggregation names to the fields they bucket on.
func SearchAggFields() map[string]string {
	return map[string]string{
		"topics":   "topics.id",
		"facility": "facility.id",
		"format":   "format",
		"genre":    "genre",
		"rights":   "rights",
	}
}

// SearchFormLabels maps field names to human-readable labels for UI forms.
func SearchFormLabels() map[string]string {
	return map[string]string{
		"models":   "Model",
		"topics":   "Topic",
		"facility": "Facility",
		"format":   "Format",
		"genre":    "Genre",
		"rights":   "Rights",
	}
}
