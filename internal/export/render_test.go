package export

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodePNG(t *testing.T, payload []byte) (width, height int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(payload))
	require.NoError(t, err)
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestRenderDocument(t *testing.T) {
	snap := fixtureSnapshot(t)

	pages, err := RenderDocument(snap)
	require.NoError(t, err)
	require.Len(t, pages, 2, "5 items at 4 per rendered page")

	for _, page := range pages {
		w, h := decodePNG(t, page)
		assert.Equal(t, pageWidth, w)
		assert.Equal(t, pageHeight, h)
	}
}

func TestRenderDocumentEmptyChecklistStillHasOnePage(t *testing.T) {
	snap := fixtureSnapshot(t)
	snap.Items = nil

	pages, err := RenderDocument(snap)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestRenderSummary(t *testing.T) {
	snap := fixtureSnapshot(t)

	payload, err := RenderSummary(snap)
	require.NoError(t, err)

	w, h := decodePNG(t, payload)
	assert.Equal(t, summaryWidth, w)
	assert.Equal(t, summaryHeight, h)
}

func TestWrap(t *testing.T) {
	assert.Nil(t, wrap("", 10))
	assert.Equal(t, []string{"hola"}, wrap("hola", 10))
	assert.Equal(t, []string{"uno dos", "tres"}, wrap("uno dos tres", 8))

	// A single oversized word gets its own line rather than being dropped.
	assert.Equal(t, []string{"palabrainterminable"}, wrap("palabrainterminable", 5))
}
