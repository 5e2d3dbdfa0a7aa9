package domain

// Report is derived from a value snapshot and never persisted.
type Report struct {
	// Lines holds "name: value" in catalog traversal order.
	Lines []string `json:"lines"`

	// Deficient holds the flagged item names in catalog traversal order.
	Deficient []string `json:"deficient"`
}

// OK reports whether no item was flagged.
func (r Report) OK() bool {
	return len(r.Deficient) == 0
}
