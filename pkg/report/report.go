package report

import (
	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
)

// Build assembles the report in catalog traversal order.
// Names missing from the snapshot are reported with the seed default.
func Build(cat *catalog.Catalog, snapshot map[string]string) domain.Report {
	order := cat.Order()
	r := domain.Report{
		Lines:     make([]string, 0, len(order)),
		Deficient: []string{},
	}

	for _, e := range order {
		value, ok := snapshot[e.Name]
		if !ok {
			value = domain.DefaultValue
		}
		r.Lines = append(r.Lines, e.Name+": "+value)

		if Deficient(e, value) {
			r.Deficient = append(r.Deficient, e.Name)
		}
	}
	return r
}

// Deficient applies the kind's rule to a single value.
func Deficient(e domain.Entry, value string) bool {
	switch e.Kind {
	case domain.KindQuantity:
		v, ok := Quantity(value)
		return ok && v < e.Min
	case domain.KindYesNo:
		return Scarcity(value) == LevelScarce
	default:
		// Packs carry no threshold.
		return false
	}
}
