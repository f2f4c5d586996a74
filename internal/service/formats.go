package service

import (
	"fmt"

	"github.com/denshoproject/densho-elastictools/internal/search"
)

// DefaultFormats returns the per-doctype formatting table for API list
// output. Every doctype shares the list-item shape; segments add duration.
func DefaultFormats() search.FormatFuncs {
	return search.FormatFuncs{
		"collection": formatListItem(nil),
		"entity":     formatListItem(nil),
		"segment":    formatListItem([]string{"duration"}),
	}
}

// formatListItem renders the fields a browse page needs plus any extras.
func formatListItem(extra []string) search.FormatFunc {
	return func(rc search.RequestContext, obj search.Object) map[string]any {
		item := map[string]any{
			"id":    obj.Source["id"],
			"model": obj.Source["model"],
			"title": obj.Source["title"],
		}
		if item["id"] == nil {
			item["id"] = obj.ID
		}
		if desc, ok := obj.Source["description"]; ok {
			item["description"] = desc
		}
		links := map[string]any{}
		for _, key := range []string{"links_html", "links_json", "links_img", "links_thumb"} {
			if v, ok := obj.Source[key]; ok {
				links[key[len("links_"):]] = v
			}
		}
		if len(links) > 0 {
			item["links"] = links
		}
		if host := rc.Host(); host != "" && item["id"] != nil {
			item["api_url"] = fmt.Sprintf("%s://%s/api/%v/%v", rc.Scheme(), host, item["model"], item["id"])
		}
		for _, key := range extra {
			if v, ok := obj.Source[key]; ok {
				item[key] = v
			}
		}
		return item
	}
}
