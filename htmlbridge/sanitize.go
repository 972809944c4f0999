package htmlbridge

import "github.com/microcosm-cc/bluemonday"

// DefaultSanitizer builds a bluemonday policy from the registry's allowed
// tags/attrs on every call, honoring spec.md §4.3's "union of base set and
// each spec's sanitize contribution" contract without caching a stale
// policy across schema mutations.
type DefaultSanitizer struct{}

// Sanitize strips any tag/attribute not present in allowedTags/allowedAttrs.
func (DefaultSanitizer) Sanitize(html string, allowedTags, allowedAttrs []string) string {
	p := bluemonday.NewPolicy()
	if len(allowedTags) > 0 {
		p.AllowElements(allowedTags...)
	}
	if len(allowedAttrs) > 0 {
		p.AllowAttrs(allowedAttrs...).Globally()
	}
	return p.Sanitize(html)
}
