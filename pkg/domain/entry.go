package domain

import "fmt"

// Kind selects the deficiency rule applied to an item at report time.
type Kind string

const (
	KindQuantity Kind = "quantity" // numeric value compared against a minimum
	KindYesNo    Kind = "yes_no"   // flagged by the scarce marker word
	KindPack     Kind = "pack"     // tracked, never flagged
)

// DefaultValue is the value every row is seeded with.
const DefaultValue = "0"

// Entry is a single trackable catalog item.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	Kind Kind   `json:"kind" yaml:"kind"`

	// Min is the minimum threshold. Only meaningful for KindQuantity.
	Min float64 `json:"min,omitempty" yaml:"min,omitempty"`
}

func (e Entry) String() string {
	if e.Kind == KindQuantity {
		return fmt.Sprintf("%s (%s, min=%g)", e.Name, e.Kind, e.Min)
	}
	return fmt.Sprintf("%s (%s)", e.Name, e.Kind)
}
