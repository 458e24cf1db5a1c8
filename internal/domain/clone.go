package domain

import (
	"maps"
	"slices"
)

// Entities carry free-form maps and slices, so a plain struct copy still
// aliases their backing storage. The store hands out and retains clones
// built here so callers can never reach its cached records.

// Clone returns a deep copy of the creator.
func (c *Creator) Clone() *Creator {
	cp := *c
	cp.SocialLinks = maps.Clone(c.SocialLinks)
	cp.Categories = slices.Clone(c.Categories)
	return &cp
}

// Clone returns a deep copy of the content set.
func (s *ContentSet) Clone() *ContentSet {
	cp := *s
	cp.SupportedNavigation = slices.Clone(s.SupportedNavigation)
	cp.Tags = slices.Clone(s.Tags)
	return &cp
}

// Clone returns a deep copy of the card, including its navigation context
// data, media references, and domain data.
func (c *Card) Clone() *Card {
	cp := *c
	if c.NavigationContexts != nil {
		cp.NavigationContexts = make(map[string]NavigationContext, len(c.NavigationContexts))
		for mode, nav := range c.NavigationContexts {
			cp.NavigationContexts[mode] = NavigationContext{
				ContextData: cloneAnyMap(nav.ContextData),
			}
		}
	}
	cp.Media = slices.Clone(c.Media)
	cp.DomainData = cloneAnyMap(c.DomainData)
	return &cp
}

// cloneAnyMap deep-copies a JSON-shaped free-form map.
func cloneAnyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneAny(v)
	}
	return out
}

// cloneAny deep-copies JSON-shaped values: nested maps and slices are
// duplicated, scalars returned as-is.
func cloneAny(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneAnyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneAny(e)
		}
		return out
	}
	return v
}
