package docstore

// Index mappings for the repository doctypes. Relation fields (topics,
// facility, creators, persons) are true nested objects; topics_id and
// facility_id are denormalized flat keywords kept alongside for cheap
// term filtering.

func identityProperties() map[string]any {
	return map[string]any{
		"id":        map[string]any{"type": "keyword"},
		"model":     map[string]any{"type": "keyword"},
		"parent_id": map[string]any{"type": "keyword"},
		"status":    map[string]any{"type": "keyword"},
		"public":    map[string]any{"type": "boolean"},
		"title": map[string]any{
			"type": "text",
			"fields": map[string]any{
				"keyword": map[string]any{"type": "keyword", "ignore_above": 512},
			},
		},
		"description": map[string]any{"type": "text"},
		"links_html":  map[string]any{"type": "keyword"},
		"links_json":  map[string]any{"type": "keyword"},
		"links_img":   map[string]any{"type": "keyword"},
		"links_thumb": map[string]any{"type": "keyword"},
	}
}

func relationProperties() map[string]any {
	return map[string]any{
		"topics": map[string]any{
			"type": "nested",
			"properties": map[string]any{
				"id":   map[string]any{"type": "keyword"},
				"term": map[string]any{"type": "text"},
			},
		},
		"facility": map[string]any{
			"type": "nested",
			"properties": map[string]any{
				"id":   map[string]any{"type": "keyword"},
				"term": map[string]any{"type": "text"},
			},
		},
		"creators": map[string]any{
			"type": "nested",
			"properties": map[string]any{
				"namepart": map[string]any{"type": "keyword"},
				"role":     map[string]any{"type": "keyword"},
			},
		},
		"persons": map[string]any{
			"type": "nested",
			"properties": map[string]any{
				"namepart": map[string]any{"type": "keyword"},
			},
		},
		"topics_id":   map[string]any{"type": "keyword"},
		"facility_id": map[string]any{"type": "keyword"},
	}
}

func mapping(extra map[string]any) map[string]any {
	props := identityProperties()
	for k, v := range relationProperties() {
		props[k] = v
	}
	for k, v := range extra {
		props[k] = v
	}
	return map[string]any{
		"mappings": map[string]any{
			"properties": props,
		},
	}
}

// CollectionMapping returns the index mapping for collection documents.
func CollectionMapping() map[string]any {
	return mapping(map[string]any{
		"unitdateinclusive": map[string]any{"type": "text"},
		"extent":            map[string]any{"type": "text"},
		"contributor":       map[string]any{"type": "keyword"},
	})
}

// EntityMapping returns the index mapping for entity documents.
func EntityMapping() map[string]any {
	return mapping(map[string]any{
		"format":         map[string]any{"type": "keyword"},
		"genre":          map[string]any{"type": "keyword"},
		"rights":         map[string]any{"type": "keyword"},
		"language":       map[string]any{"type": "keyword"},
		"creation":       map[string]any{"type": "text"},
		"links_children": map[string]any{"type": "keyword"},
	})
}

// SegmentMapping returns the index mapping for segment documents.
func SegmentMapping() map[string]any {
	return mapping(map[string]any{
		"format":   map[string]any{"type": "keyword"},
		"genre":    map[string]any{"type": "keyword"},
		"rights":   map[string]any{"type": "keyword"},
		"duration": map[string]any{"type": "text"},
	})
}

// Mappings returns the mapping for every known doctype.
func Mappings() map[string]map[string]any {
	return map[string]map[string]any{
		"collection": CollectionMapping(),
		"entity":     EntityMapping(),
		"segment":    SegmentMapping(),
	}
}
