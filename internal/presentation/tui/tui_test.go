package tui

import (
	"bytes"
	"testing"

	"github.com/aretw0/stockcheck/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainRenderer(t *testing.T) {
	render, err := NewPlainRenderer()
	require.NoError(t, err)

	out, err := render(domain.Report{
		Lines:     []string{"Orange: 1", "Soap: мало"},
		Deficient: []string{"Orange", "Soap"},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Orange")
	assert.Contains(t, out, "мало")
	assert.Contains(t, out, "МАЛО")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")
	assert.Contains(t, buf.String(), "stockcheck")
	assert.Contains(t, buf.String(), "1.2.3")
	assert.Contains(t, buf.String(), "/count")
}
