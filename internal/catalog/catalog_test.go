package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemes(t *testing.T) {
	tests := []struct {
		key   string
		items int
	}{
		{key: "pse-basico", items: 5},
		{key: "pse-avanzado", items: 8},
		{key: "pse-empresarial", items: 12},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			scheme, err := ByKey(tt.key)
			require.NoError(t, err)
			assert.Len(t, scheme.Items, tt.items)
			assert.True(t, Known(tt.key))

			// IDs are sequential from 1 in display order.
			for i, item := range scheme.Items {
				assert.Equal(t, i+1, item.ID)
				assert.NotEmpty(t, item.Prompt)
				assert.NotEmpty(t, item.Expected)
			}
		})
	}
}

func TestSchemesSharePrefix(t *testing.T) {
	basic := ItemsFor("pse-basico")
	advanced := ItemsFor("pse-avanzado")
	enterprise := ItemsFor("pse-empresarial")

	for i, item := range basic {
		assert.Equal(t, item, advanced[i])
		assert.Equal(t, item, enterprise[i])
	}
	for i, item := range advanced {
		assert.Equal(t, item, enterprise[i])
	}
}

func TestUnknownKeyFallsBackToLegacy(t *testing.T) {
	_, err := ByKey("pse-premium")
	assert.Error(t, err)
	assert.False(t, Known("pse-premium"))
	assert.False(t, Known(""))

	// Stored keys that no longer resolve still get a usable checklist.
	legacy := ItemsFor("pse-premium")
	assert.Len(t, legacy, 10)
	assert.Equal(t, ItemsFor(""), legacy)

	assert.Equal(t, "Checklist de Certificación", DisplayName("pse-premium"))
	assert.Equal(t, "PSE Básico", DisplayName("pse-basico"))
}

func TestAll(t *testing.T) {
	all := All()
	require.Len(t, all, 3)
	assert.Equal(t, "pse-basico", all[0].Key)
	assert.Equal(t, "pse-avanzado", all[1].Key)
	assert.Equal(t, "pse-empresarial", all[2].Key)
}
