package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/dtbmods/pkg/types"
)

// ScenariosFile is the shared end-to-end fixture, relative to the repository root.
const ScenariosFile = "testdata/scenarios.yaml"

// Scenario is one end-to-end case: a device tree, a modules.alias body, and
// the exact listing expected on stdout.
type Scenario struct {
	Name    string    `yaml:"name"`
	Tree    *TreeNode `yaml:"tree"`
	Aliases string    `yaml:"aliases"`
	Output  string    `yaml:"output"`
}

// TreeNode is the YAML form of a device tree node. A node carries a
// compatible property when the key is present, even as an empty list.
type TreeNode struct {
	Name       string      `yaml:"name"`
	Compatible []string    `yaml:"compatible"`
	Children   []*TreeNode `yaml:"children"`
}

// Node converts n into a builder node.
func (n *TreeNode) Node() *Node {
	out := &Node{Name: n.Name}
	if n.Compatible != nil {
		out.Props = append(out.Props, Compatible(n.Compatible...))
	}
	for _, c := range n.Children {
		out.Children = append(out.Children, c.Node())
	}
	return out
}

// Devices returns the devices of the subtree in pre-order.
func (n *TreeNode) Devices() []types.Device {
	var out []types.Device
	var visit func(*TreeNode)
	visit = func(n *TreeNode) {
		if n.Compatible != nil {
			out = append(out, types.Device{Name: n.Name, Compatible: n.Compatible})
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(n)
	return out
}

// LoadScenarios parses the scenario file at path. Relative paths are tried
// from the working directory and then from each parent, so packages at any
// depth can name the file relative to the repository root.
func LoadScenarios(t *testing.T, path string) []Scenario {
	t.Helper()

	data, err := os.ReadFile(resolveTestPath(t, path))
	if err != nil {
		t.Fatalf("read scenarios: %v", err)
	}
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse scenarios: %v", err)
	}
	if len(doc.Scenarios) == 0 {
		t.Fatalf("no scenarios in %s", path)
	}
	for i, sc := range doc.Scenarios {
		if sc.Name == "" || sc.Tree == nil {
			t.Fatalf("scenario %d: name and tree are required", i)
		}
	}
	return doc.Scenarios
}

func resolveTestPath(t *testing.T, path string) string {
	t.Helper()
	if filepath.IsAbs(path) {
		return path
	}
	dir := "."
	for range 6 {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Join(dir, "..")
	}
	t.Fatalf("test file not found: %s", path)
	return ""
}
