package modalias

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"os"
	"strings"
)

const (
	// aliasKeyword is the first field of every alias record.
	aliasKeyword = "alias"

	// maxLineSize bounds a single modules.alias line.
	maxLineSize = 1 << 20
)

// Alias is one alias record: the alias string and the module it loads.
type Alias struct {
	Alias  string
	Module string
}

// ParseLine extracts the alias record from a single line. Fields are split
// on single spaces; ok is false unless the first field is "alias" and at
// least three fields are present. Fields past the third are ignored.
func ParseLine(line string) (Alias, bool) {
	fields := strings.Split(line, " ")
	if len(fields) < 3 || fields[0] != aliasKeyword {
		return Alias{}, false
	}
	return Alias{Alias: fields[1], Module: fields[2]}, true
}

// ParseAliases returns the alias records in rd in file order. Lines that are
// not alias records are skipped. Read errors are yielded once and end the
// sequence.
func ParseAliases(rd io.Reader) iter.Seq2[Alias, error] {
	return func(yield func(Alias, error) bool) {
		sc := bufio.NewScanner(rd)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for sc.Scan() {
			a, ok := ParseLine(sc.Text())
			if !ok {
				continue
			}
			if !yield(a, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Alias{}, fmt.Errorf("read aliases: %w", err))
		}
	}
}

// ReadAliases opens the file at path and returns its alias records. The file
// is opened when the sequence is ranged over and closed when it ends.
func ReadAliases(path string) iter.Seq2[Alias, error] {
	return func(yield func(Alias, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			yield(Alias{}, fmt.Errorf("open modalias: %w", err))
			return
		}
		defer f.Close()

		for a, err := range ParseAliases(f) {
			if err != nil {
				yield(Alias{}, fmt.Errorf("%s: %w", path, err))
				return
			}
			if !yield(a, nil) {
				return
			}
		}
	}
}

// Aliases maps alias strings to modules. Adding an existing alias replaces
// its module but keeps its original position, so iteration follows the
// order in which each alias was first seen.
type Aliases struct {
	order   []string
	modules map[string]string
}

// NewAliases returns an empty mapping.
func NewAliases() *Aliases {
	return &Aliases{modules: make(map[string]string)}
}

// Add records alias → module.
func (a *Aliases) Add(alias, module string) {
	if _, ok := a.modules[alias]; !ok {
		a.order = append(a.order, alias)
	}
	a.modules[alias] = module
}

// Module returns the module recorded for alias.
func (a *Aliases) Module(alias string) (string, bool) {
	m, ok := a.modules[alias]
	return m, ok
}

// Len returns the number of distinct aliases.
func (a *Aliases) Len() int { return len(a.order) }

// All iterates alias → module pairs in first-seen order.
func (a *Aliases) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, alias := range a.order {
			if !yield(alias, a.modules[alias]) {
				return
			}
		}
	}
}

// Collect folds a sequence of records into an Aliases mapping. Later records
// win for duplicate alias strings.
func Collect(seq iter.Seq2[Alias, error]) (*Aliases, error) {
	out := NewAliases()
	for a, err := range seq {
		if err != nil {
			return nil, err
		}
		out.Add(a.Alias, a.Module)
	}
	return out, nil
}

// Load reads and collects the alias file at path.
func Load(path string) (*Aliases, error) {
	return Collect(ReadAliases(path))
}
