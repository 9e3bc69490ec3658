package playlist

// MergeTopLevel merges a partial update into an existing entity using
// object-spread semantics: every top-level key of patch overwrites the
// matching key of existing, last writer wins. Nested values (such as
// "playlist") are replaced wholesale, never deep-merged. Both backends must
// reproduce exactly this policy, so it lives here as a pure function.
func MergeTopLevel(existing, patch map[string]any) map[string]any {
	merged := make(map[string]any, len(existing)+len(patch))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range patch {
		merged[k] = v
	}
	return merged
}
