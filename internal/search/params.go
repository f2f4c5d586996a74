package search

import "net/url"

// Params holds caller-supplied search parameters. Values are slices because
// filter parameters may repeat (url.Values shape).
type Params map[string][]string

// ParamsFromValues copies URL query values into Params.
func ParamsFromValues(values url.Values) Params {
	p := make(Params, len(values))
	for key, vals := range values {
		p[key] = append([]string{}, vals...)
	}
	return p
}

// First returns the first value for key, or "".
func (p Params) First(key string) string {
	if vals := p[key]; len(vals) > 0 {
		return vals[0]
	}
	return ""
}

// Set replaces the values for key.
func (p Params) Set(key string, vals ...string) {
	p[key] = vals
}

// Copy returns a deep copy.
func (p Params) Copy() Params {
	out := make(Params, len(p))
	for key, vals := range p {
		out[key] = append([]string{}, vals...)
	}
	return out
}

// Sanitized returns a copy with every value passed through SanitizeInput.
func (p Params) Sanitized() Params {
	out := make(Params, len(p))
	for key, vals := range p {
		cleaned := make([]string, len(vals))
		for i, v := range vals {
			cleaned[i] = SanitizeInput(v)
		}
		out[key] = cleaned
	}
	return out
}

// Scrub drops every key not in the whitelist. The page key survives
// scrubbing; it is reserved for pagination.
func (p Params) Scrub(whitelist []string) {
	allowed := make(map[string]bool, len(whitelist)+1)
	for _, key := range whitelist {
		allowed[key] = true
	}
	allowed["page"] = true
	for key := range p {
		if !allowed[key] {
			delete(p, key)
		}
	}
}
