package tax

import "strings"

// JurisdictionOther is returned when no rule matches the address
const JurisdictionOther = "OTHER"

// Rule matches an address to a jurisdiction key. Postal prefixes are
// checked before name substrings, in table order.
type Rule struct {
	Key            string
	PostalPrefixes []string
	NameSubstrings []string
}

// Resolver maps free form address and postal code pairs to
// jurisdiction keys using an ordered rule table
type Resolver struct {
	rules []Rule
}

// NewResolver creates a resolver over the given ordered rule table.
// Name substrings are lowercased once here so matching stays case
// insensitive regardless of how the table was written.
func NewResolver(rules []Rule) *Resolver {
	normalized := make([]Rule, len(rules))
	for i, rule := range rules {
		normalized[i] = rule
		if len(rule.NameSubstrings) > 0 {
			subs := make([]string, len(rule.NameSubstrings))
			for j, sub := range rule.NameSubstrings {
				subs[j] = strings.ToLower(sub)
			}
			normalized[i].NameSubstrings = subs
		}
	}
	return &Resolver{rules: normalized}
}

// Resolve returns the jurisdiction key for the given postal code and
// address text. Postal code matches take precedence over name matches,
// earlier rules take precedence over later ones. Resolution always
// terminates with a key, falling back to JurisdictionOther.
func (r *Resolver) Resolve(postalCode, addressText string) string {
	postalCode = strings.TrimSpace(postalCode)
	if postalCode != "" {
		for _, rule := range r.rules {
			for _, prefix := range rule.PostalPrefixes {
				if strings.HasPrefix(postalCode, prefix) {
					return rule.Key
				}
			}
		}
	}

	addressText = strings.ToLower(strings.TrimSpace(addressText))
	if addressText != "" {
		for _, rule := range r.rules {
			for _, sub := range rule.NameSubstrings {
				if strings.Contains(addressText, sub) {
					return rule.Key
				}
			}
		}
	}

	return JurisdictionOther
}
