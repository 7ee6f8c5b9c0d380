package reader

import (
	"bytes"
	"strings"

	"github.com/joshuapare/dtbmods/pkg/types"
)

// aliasesPath is the node whose properties map alias names to absolute paths.
const aliasesPath = "/aliases"

func (r *reader) PathOffset(path string) (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	if strings.HasPrefix(path, "/") {
		root, err := r.root()
		if err != nil {
			return 0, err
		}
		return r.resolve(root, path)
	}

	alias, rest, _ := strings.Cut(path, "/")
	target, err := r.aliasTarget(alias)
	if err != nil {
		return 0, err
	}
	base, err := r.PathOffset(target)
	if err != nil {
		return 0, err
	}
	return r.resolve(base, rest)
}

// aliasTarget returns the absolute path an alias points at.
func (r *reader) aliasTarget(alias string) (string, error) {
	aliases, err := r.PathOffset(aliasesPath)
	if err != nil {
		return "", err
	}
	val, err := r.Prop(aliases, alias)
	if err != nil {
		return "", err
	}
	target := string(bytes.TrimRight(val, "\x00"))
	if !strings.HasPrefix(target, "/") {
		return "", &types.Error{Kind: types.ErrKindNotFound, Msg: "alias " + alias + " is not an absolute path"}
	}
	return target, nil
}

// resolve walks path components below id. Repeated slashes are ignored.
func (r *reader) resolve(id types.NodeID, path string) (types.NodeID, error) {
	for _, comp := range strings.Split(path, "/") {
		if comp == "" {
			continue
		}
		child, err := r.subnode(id, comp)
		if err != nil {
			return 0, err
		}
		id = child
	}
	return id, nil
}

// subnode finds the child of id named comp.
func (r *reader) subnode(id types.NodeID, comp string) (types.NodeID, error) {
	child, err := r.FirstSubnode(id)
	for err == nil {
		name, nameErr := r.Name(child)
		if nameErr != nil {
			return 0, nameErr
		}
		if nodeNameMatches(name, comp) {
			return child, nil
		}
		child, err = r.NextSubnode(child)
	}
	return 0, err
}

// nodeNameMatches reports whether a node called name satisfies the path
// component comp. A component without a unit address matches any unit
// address: "serial" matches "serial@9000", "serial@9000" matches only itself.
func nodeNameMatches(name, comp string) bool {
	if name == comp {
		return true
	}
	if strings.Contains(comp, "@") {
		return false
	}
	base, _, hasUnit := strings.Cut(name, "@")
	return hasUnit && base == comp
}
