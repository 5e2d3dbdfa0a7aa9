package report_test

import (
	"testing"

	"github.com/aretw0/stockcheck/pkg/catalog"
	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/aretw0/stockcheck/pkg/report"
	"github.com/stretchr/testify/assert"
)

func TestDeficient_Quantity(t *testing.T) {
	orange := domain.Entry{Name: "Orange", Kind: domain.KindQuantity, Min: 2}

	tests := []struct {
		value string
		want  bool
	}{
		{"1.5", true},
		{"2", false}, // strict less-than
		{"2.5", false},
		{"0", true},
		{"-1", true},
		{"abc", false}, // parse failure is not flagged
		{"", false},
		{"1,5", false},
		{" 1.5 ", true},
		{"-1e400", true}, // out of range reads as -Inf
		{"1e400", false},
		{"0x1p0", false}, // hex is not a quantity
		{"-0X1", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, report.Deficient(orange, tt.value))
		})
	}
}

func TestDeficient_YesNo(t *testing.T) {
	soap := domain.Entry{Name: "Soap", Kind: domain.KindYesNo}

	assert.True(t, report.Deficient(soap, "мало"))
	assert.True(t, report.Deficient(soap, "МАЛО"))
	assert.True(t, report.Deficient(soap, "Мало"))
	assert.False(t, report.Deficient(soap, "0"))
	assert.False(t, report.Deficient(soap, "много"))
	assert.False(t, report.Deficient(soap, "мало "), "marker must match exactly")
}

func TestDeficient_PackNeverFlagged(t *testing.T) {
	napkins := domain.Entry{Name: "Napkins", Kind: domain.KindPack}
	for _, v := range []string{"0", "-5", "мало", "abc", ""} {
		assert.False(t, report.Deficient(napkins, v), v)
	}
}

func TestScarcity(t *testing.T) {
	assert.Equal(t, report.LevelUnknown, report.Scarcity(""))
	assert.Equal(t, report.LevelScarce, report.Scarcity("мАлО"))
	assert.Equal(t, report.LevelOther, report.Scarcity("0"))
	assert.Equal(t, "scarce", report.LevelScarce.String())
}

func TestBuild_EndToEndScenario(t *testing.T) {
	cat := catalog.MustNew(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "Orange", Min: 2}},
		YesNo:      []string{"Soap"},
	})

	r := report.Build(cat, map[string]string{"Orange": "1", "Soap": "0"})

	assert.Equal(t, []string{"Orange: 1", "Soap: 0"}, r.Lines)
	assert.Equal(t, []string{"Orange"}, r.Deficient)
	assert.False(t, r.OK())
}

func TestBuild_FollowsCatalogOrder(t *testing.T) {
	cat := catalog.MustNew(catalog.Definition{
		Quantities: []catalog.Threshold{{Name: "B", Min: 1}, {Name: "A", Min: 1}},
		YesNo:      []string{"D", "C"},
		Packs:      []string{"E"},
	})
	snap := map[string]string{"A": "0", "B": "0", "C": "мало", "D": "мало", "E": "0", "extra": "ignored"}

	r := report.Build(cat, snap)
	assert.Equal(t, []string{"B: 0", "A: 0", "D: мало", "C: мало", "E: 0"}, r.Lines)
	assert.Equal(t, []string{"B", "A", "D", "C"}, r.Deficient)
}

func TestBuild_MissingRowUsesDefault(t *testing.T) {
	cat := catalog.MustNew(catalog.Definition{YesNo: []string{"Soap"}})
	r := report.Build(cat, map[string]string{})
	assert.Equal(t, []string{"Soap: 0"}, r.Lines)
	assert.True(t, r.OK())
}

func TestBuild_EmptyCatalog(t *testing.T) {
	cat := catalog.MustNew(catalog.Definition{})
	r := report.Build(cat, nil)
	assert.Empty(t, r.Lines)
	assert.Empty(t, r.Deficient)
	assert.True(t, r.OK())
}

func TestText(t *testing.T) {
	t.Run("Deficient Section", func(t *testing.T) {
		out := report.Text(domain.Report{
			Lines:     []string{"Orange: 1", "Soap: 0"},
			Deficient: []string{"Orange"},
		})
		assert.Equal(t, "📦 Отчет:\n\nOrange: 1\nSoap: 0\n\n⚠️ МАЛО:\n- Orange\n", out)
	})

	t.Run("All Normal", func(t *testing.T) {
		out := report.Text(domain.Report{Lines: []string{"Orange: 3"}})
		assert.Equal(t, "📦 Отчет:\n\nOrange: 3\n\n✅ Всё в норме", out)
	})

	t.Run("Empty", func(t *testing.T) {
		out := report.Text(domain.Report{})
		assert.Equal(t, "📦 Отчет:\n\n\n✅ Всё в норме", out)
	})
}

func TestMarkdown(t *testing.T) {
	out := report.Markdown(domain.Report{
		Lines:     []string{"Ice_cream: 0"},
		Deficient: []string{"Ice_cream"},
	})
	assert.Contains(t, out, `- Ice\_cream: 0`)
	assert.Contains(t, out, "## ⚠️ МАЛО:")
	assert.Contains(t, out, `- **Ice\_cream**`)

	ok := report.Markdown(domain.Report{Lines: []string{"A: 1"}})
	assert.Contains(t, ok, "**✅ Всё в норме**")
}
