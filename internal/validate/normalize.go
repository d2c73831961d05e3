package validate

// Normalizer maps raw request fields onto an entity's canonical field names
// before validation. Aliases fold accepted spellings (camelCase vs
// snake_case) onto the canonical name; path-derived values are applied last
// and always override a same-named body field, because the URL path is the
// more authoritative source for parent-linkage fields.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer creates a normalizer with the given alias -> canonical map.
// A nil map is fine for entities whose wire names are already canonical.
func NewNormalizer(aliases map[string]string) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Apply builds a canonical record from the request body and path-derived
// values. The inputs are not mutated.
func (n *Normalizer) Apply(body map[string]any, path map[string]any) Record {
	rec := make(Record, len(body)+len(path))

	for field, value := range body {
		if canonical, ok := n.aliases[field]; ok {
			field = canonical
		}
		rec[field] = value
	}

	// Path values win over anything the body claimed.
	for field, value := range path {
		rec[field] = value
	}

	return rec
}
