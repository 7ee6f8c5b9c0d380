package modalias

import "strings"

const (
	// OFPrefix marks device tree (open firmware) aliases.
	OFPrefix = "of:"

	// compatibleSep separates the compatible strings embedded in an of alias.
	compatibleSep = "C"

	// wildcard is the glob placeholder for an unconstrained compatible.
	wildcard = "*"
)

// CompatibleIndex maps a compatible string to the module that handles it.
type CompatibleIndex map[string]string

// Lookup returns the module for compatible.
func (idx CompatibleIndex) Lookup(compatible string) (string, bool) {
	m, ok := idx[compatible]
	return m, ok
}

// Compatibles returns the compatible strings embedded in an of alias, or
// nil for any other alias family. The whole alias is split on C, the part
// before the first C is discarded, and "*" segments are dropped.
//
// The split is literal: a compatible that itself contains an uppercase C is
// broken into pieces, matching how the aliases are conventionally consumed.
func Compatibles(alias string) []string {
	if !strings.HasPrefix(alias, OFPrefix) {
		return nil
	}
	segs := strings.Split(alias, compatibleSep)[1:]
	out := segs[:0]
	for _, s := range segs {
		if s != wildcard {
			out = append(out, s)
		}
	}
	return out
}

// IndexByCompatible builds the compatible → module index from aliases.
// Aliases are visited in their mapping order and a compatible string claimed
// by several aliases maps to the last one visited.
func IndexByCompatible(aliases *Aliases) CompatibleIndex {
	idx := make(CompatibleIndex)
	for alias, module := range aliases.All() {
		for _, c := range Compatibles(alias) {
			idx[c] = module
		}
	}
	return idx
}
