package walker

import (
	"bytes"
	"errors"
	"fmt"
	"iter"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/joshuapare/dtbmods/pkg/types"
)

// CompatibleProp is the property that lists the drivers able to bind a node.
const CompatibleProp = "compatible"

// AllDevices returns a Device for every node carrying a compatible property,
// in traversal order.
func AllDevices(nav types.Navigator) iter.Seq2[types.Device, error] {
	return func(yield func(types.Device, error) bool) {
		for id, err := range AllNodes(nav) {
			if err != nil {
				yield(types.Device{}, err)
				return
			}
			dev, ok, err := device(nav, id)
			if err != nil {
				yield(types.Device{}, err)
				return
			}
			if !ok {
				continue
			}
			if !yield(dev, nil) {
				return
			}
		}
	}
}

// Devices collects AllDevices into a slice.
func Devices(nav types.Navigator) ([]types.Device, error) {
	var out []types.Device
	for dev, err := range AllDevices(nav) {
		if err != nil {
			return nil, err
		}
		out = append(out, dev)
	}
	return out, nil
}

func device(nav types.Navigator, id types.NodeID) (types.Device, bool, error) {
	val, err := nav.Prop(id, CompatibleProp)
	if errors.Is(err, types.ErrNotFound) {
		return types.Device{}, false, nil
	}
	if err != nil {
		return types.Device{}, false, err
	}
	name, err := nav.Name(id)
	if err != nil {
		return types.Device{}, false, err
	}
	compat, err := SplitStringList(val)
	if err != nil {
		return types.Device{}, false, fmt.Errorf("node %q: %w", name, err)
	}
	return types.Device{Name: name, Compatible: compat}, true, nil
}

// SplitStringList decodes a device tree string list. The value is split on
// NUL and the segment after the final NUL is dropped, so "a\x00b\x00" yields
// [a b], an empty value yields no strings, and bytes after the last
// terminator are ignored. Each string must be valid UTF-8.
func SplitStringList(val []byte) ([]string, error) {
	segs := bytes.Split(val, []byte{0})
	segs = segs[:len(segs)-1]

	out := make([]string, 0, len(segs))
	for _, seg := range segs {
		s, _, err := transform.String(encoding.UTF8Validator, string(seg))
		if err != nil {
			return nil, &types.Error{
				Kind: types.ErrKindCorrupt,
				Msg:  fmt.Sprintf("%s string %q", CompatibleProp, seg),
				Err:  err,
			}
		}
		out = append(out, s)
	}
	return out, nil
}
