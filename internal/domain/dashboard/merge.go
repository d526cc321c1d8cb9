// internal/domain/dashboard/merge.go
package dashboard

// Merge appends the incoming records whose (title, category) pair is not yet
// present, each under an identifier from newID. existing is never modified.
func Merge(existing, incoming []Product, newID func() string) []Product {
	out := make([]Product, len(existing), len(existing)+len(incoming))
	copy(out, existing)

	seen := make(map[string]bool, len(existing)+len(incoming))
	for _, p := range existing {
		seen[p.mergeKey()] = true
	}
	for _, p := range incoming {
		k := p.mergeKey()
		if seen[k] {
			continue
		}
		seen[k] = true
		p.ID = newID()
		out = append(out, p)
	}
	return out
}
