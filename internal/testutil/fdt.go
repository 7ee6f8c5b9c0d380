package testutil

import (
	"encoding/binary"
)

// Raw FDT layout constants. Kept local so format tests can import this
// package without a cycle.
const (
	fdtMagic      = 0xd00dfeed
	fdtBeginNode  = 0x1
	fdtEndNode    = 0x2
	fdtProp       = 0x3
	fdtNop        = 0x4
	fdtEnd        = 0x9
	fdtHeaderSize = 40
	fdtRsvmapSize = 16 // a single terminating (0, 0) reservation entry
)

// Node describes a device tree node to be encoded by Build.
type Node struct {
	Name     string
	Props    []Prop
	Children []*Node
}

// Prop is a raw property value.
type Prop struct {
	Name  string
	Value []byte
}

// BuildOptions tweaks the encoded blob.
type BuildOptions struct {
	// Version written to the header. 16 omits size_dt_struct. Default 17.
	Version uint32
	// Nops inserts an FDT_NOP before every property and child node.
	Nops bool
}

// Strings encodes ss as a device tree string list: each entry NUL-terminated.
func Strings(ss ...string) []byte {
	var out []byte
	for _, s := range ss {
		out = append(out, s...)
		out = append(out, 0)
	}
	return out
}

// Compatible returns a "compatible" property holding ss.
func Compatible(ss ...string) Prop {
	return Prop{Name: "compatible", Value: Strings(ss...)}
}

// Build encodes root as a flattened device tree blob with default options.
//
//	blob := testutil.Build(&testutil.Node{
//	    Children: []*testutil.Node{
//	        {Name: "uart@1000", Props: []testutil.Prop{testutil.Compatible("acme,uart")}},
//	    },
//	})
func Build(root *Node) []byte {
	return BuildWithOptions(root, BuildOptions{})
}

// BuildWithOptions encodes root with the given options.
func BuildWithOptions(root *Node, opts BuildOptions) []byte {
	if opts.Version == 0 {
		opts.Version = 17
	}
	e := &fdtEncoder{nameOffs: map[string]uint32{}, nops: opts.Nops}
	e.node(root)
	e.word(fdtEnd)

	offStruct := fdtHeaderSize + fdtRsvmapSize
	offStrings := offStruct + len(e.structs)
	total := offStrings + len(e.strs)

	out := make([]byte, total)
	be := binary.BigEndian
	be.PutUint32(out[0x00:], fdtMagic)
	be.PutUint32(out[0x04:], uint32(total))
	be.PutUint32(out[0x08:], uint32(offStruct))
	be.PutUint32(out[0x0C:], uint32(offStrings))
	be.PutUint32(out[0x10:], fdtHeaderSize)
	be.PutUint32(out[0x14:], opts.Version)
	be.PutUint32(out[0x18:], 16)
	be.PutUint32(out[0x20:], uint32(len(e.strs)))
	if opts.Version >= 17 {
		be.PutUint32(out[0x24:], uint32(len(e.structs)))
	}
	copy(out[offStruct:], e.structs)
	copy(out[offStrings:], e.strs)
	return out
}

type fdtEncoder struct {
	structs  []byte
	strs     []byte
	nameOffs map[string]uint32
	nops     bool
}

func (e *fdtEncoder) word(v uint32) {
	e.structs = binary.BigEndian.AppendUint32(e.structs, v)
}

func (e *fdtEncoder) pad() {
	for len(e.structs)%4 != 0 {
		e.structs = append(e.structs, 0)
	}
}

func (e *fdtEncoder) nameOff(name string) uint32 {
	if off, ok := e.nameOffs[name]; ok {
		return off
	}
	off := uint32(len(e.strs))
	e.strs = append(e.strs, name...)
	e.strs = append(e.strs, 0)
	e.nameOffs[name] = off
	return off
}

func (e *fdtEncoder) node(n *Node) {
	e.word(fdtBeginNode)
	e.structs = append(e.structs, n.Name...)
	e.structs = append(e.structs, 0)
	e.pad()
	for _, p := range n.Props {
		if e.nops {
			e.word(fdtNop)
		}
		e.word(fdtProp)
		e.word(uint32(len(p.Value)))
		e.word(e.nameOff(p.Name))
		e.structs = append(e.structs, p.Value...)
		e.pad()
	}
	for _, c := range n.Children {
		if e.nops {
			e.word(fdtNop)
		}
		e.node(c)
	}
	e.word(fdtEndNode)
}
