package modalias

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibles(t *testing.T) {
	tests := []struct {
		alias string
		want  []string
	}{
		{"of:N*T*Cfsl,imx6q-uartC*", []string{"fsl,imx6q-uart"}},
		{"of:N00001C00112345C*", []string{"00112345"}},
		// The split is literal: only a segment that is exactly "*" is a wildcard.
		{"of:N00001C00112345C*01P02", []string{"00112345", "*01P02"}},
		{"of:N00001C00112345C*C01P02", []string{"00112345", "01P02"}},
		{"of:N00Cacme,x", []string{"acme,x"}},
		{"of:NgpioT*", []string{}},
		// Uppercase C inside a compatible is treated as a separator.
		{"of:N*T*Cacme,ADCv2C*", []string{"acme,AD", "v2"}},
		{"pci:v00008086d*", nil},
		{"platform:Cfoo", nil},
	}
	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			assert.Equal(t, tt.want, Compatibles(tt.alias))
		})
	}
}

func indexFrom(t *testing.T, text string) CompatibleIndex {
	t.Helper()
	aliases, err := Collect(ParseAliases(strings.NewReader(text)))
	require.NoError(t, err)
	return IndexByCompatible(aliases)
}

func TestIndexByCompatible(t *testing.T) {
	idx := indexFrom(t, "alias of:N00001C00112345C*C01P02 foo_mod\nbadtoken x y\n")
	assert.Equal(t, CompatibleIndex{"00112345": "foo_mod", "01P02": "foo_mod"}, idx)
}

func TestIndexByCompatibleIgnoresOtherFamilies(t *testing.T) {
	idx := indexFrom(t, strings.Join([]string{
		"alias pci:v00008086d00001533sv*sd*bc*sc*i* igb",
		"alias platform:Cnot-of plat_mod",
		"alias of:N*T*Cacme,x mod_x",
	}, "\n"))
	assert.Equal(t, CompatibleIndex{"acme,x": "mod_x"}, idx)

	m, ok := idx.Lookup("acme,x")
	assert.True(t, ok)
	assert.Equal(t, "mod_x", m)
	_, ok = idx.Lookup("acme,y")
	assert.False(t, ok)
}

func TestIndexByCompatibleLastWriterWins(t *testing.T) {
	idx := indexFrom(t, strings.Join([]string{
		"alias of:N*T*Cacme,uart first_mod",
		"alias of:N*T*Cacme,uartC* second_mod",
	}, "\n"))
	assert.Equal(t, "second_mod", idx["acme,uart"])

	// A repeated alias string keeps its first position but takes the later
	// module, so it still loses to aliases first seen after it.
	idx = indexFrom(t, strings.Join([]string{
		"alias of:N*T*Cacme,uart first_mod",
		"alias of:N*T*Cacme,uartC* second_mod",
		"alias of:N*T*Cacme,uart third_mod",
	}, "\n"))
	assert.Equal(t, "second_mod", idx["acme,uart"])
}

func TestIndexByCompatibleEmpty(t *testing.T) {
	assert.Empty(t, IndexByCompatible(NewAliases()))
}
