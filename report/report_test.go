package report

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dtbmods/internal/testutil"
	"github.com/joshuapare/dtbmods/modalias"
	"github.com/joshuapare/dtbmods/pkg/types"
)

func indexFrom(t *testing.T, aliases string) modalias.CompatibleIndex {
	t.Helper()
	set, err := modalias.Collect(modalias.ParseAliases(strings.NewReader(aliases)))
	require.NoError(t, err)
	return modalias.IndexByCompatible(set)
}

func TestWrite_Scenarios(t *testing.T) {
	for _, sc := range testutil.LoadScenarios(t, testutil.ScenariosFile) {
		t.Run(sc.Name, func(t *testing.T) {
			var buf bytes.Buffer
			err := Write(&buf, sc.Tree.Devices(), indexFrom(t, sc.Aliases))
			require.NoError(t, err)
			assert.Equal(t, sc.Output, buf.String())
		})
	}
}

func TestWrite_NoDevices(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, nil, modalias.CompatibleIndex{}))
	assert.Equal(t, "[\n\n]\n", buf.String())
}

func TestMatch_Groups(t *testing.T) {
	devices := []types.Device{
		{Name: "uart0", Compatible: []string{"acme,uart", "ns16550a"}},
		{Name: "uart1", Compatible: []string{"ns16550a"}},
		{Name: "gpu", Compatible: []string{"acme,gpu"}},
	}
	idx := modalias.CompatibleIndex{"acme,uart": "acme_uart", "ns16550a": "8250_of"}

	res := Match(devices, idx)
	require.Len(t, res.Groups, 2)
	assert.Equal(t, "8250_of", res.Groups[0].Module)
	assert.Equal(t, []Request{
		{Device: devices[0], Compatible: "ns16550a"},
		{Device: devices[1], Compatible: "ns16550a"},
	}, res.Groups[0].Requests)
	assert.Equal(t, "acme_uart", res.Groups[1].Module)
	assert.Equal(t, []types.Device{devices[2]}, res.Unmatched)
}

// syntheticBoard builds n devices whose compatibles hit a handful of modules
// in an interleaved order, plus some that match nothing.
func syntheticBoard(n int) ([]types.Device, modalias.CompatibleIndex) {
	modules := []string{"zeta", "alpha", "mid", "alpha2", "beta"}
	idx := modalias.CompatibleIndex{}
	var devices []types.Device
	for i := range n {
		compat := []string{fmt.Sprintf("vendor,chip%d", i), fmt.Sprintf("generic,%d", i%7)}
		if i%4 != 3 {
			idx[compat[i%2]] = modules[i%len(modules)]
		}
		devices = append(devices, types.Device{Name: fmt.Sprintf("dev%d", i), Compatible: compat})
	}
	devices = append(devices, types.Device{Name: "empty", Compatible: nil})
	return devices, idx
}

func TestMatch_Properties(t *testing.T) {
	devices, idx := syntheticBoard(60)
	res := Match(devices, idx)

	// Every device lands in exactly one of matched or unmatched.
	matched := map[string]bool{}
	for _, g := range res.Groups {
		for _, r := range g.Requests {
			matched[r.Device.Name] = true
		}
	}
	unmatched := map[string]bool{}
	for _, d := range res.Unmatched {
		unmatched[d.Name] = true
	}
	for _, d := range devices {
		assert.NotEqual(t, matched[d.Name], unmatched[d.Name], "device %s", d.Name)
	}
	assert.True(t, unmatched["empty"])

	// Groups are unique and ordered by module name.
	var mods []string
	for _, g := range res.Groups {
		mods = append(mods, g.Module)
	}
	assert.True(t, slices.IsSorted(mods), "groups out of order: %v", mods)
	assert.Len(t, slices.Compact(slices.Clone(mods)), len(mods), "module split across groups")
}

func TestWrite_GroupsAreContiguous(t *testing.T) {
	devices, idx := syntheticBoard(60)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, devices, idx))

	// Every request line belongs to the module line that closes its block.
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Equal(t, "[", lines[0])
	require.Equal(t, "]", lines[len(lines)-1])

	var seen []string
	var pending []string
	for _, line := range lines[2 : len(lines)-1] {
		switch {
		case strings.HasPrefix(line, "  # unmatched #"):
			require.Empty(t, pending, "unmatched section interleaved with a group")
		case strings.HasPrefix(line, "  # "):
			compat := line[strings.Index(line, `compatible="`)+len(`compatible="`) : len(line)-1]
			pending = append(pending, compat)
		case strings.HasPrefix(line, `  "`):
			module := strings.Trim(line, ` "`)
			require.NotEmpty(t, pending, "module %s without requests", module)
			for _, c := range pending {
				assert.Equal(t, idx[c], module)
			}
			seen = append(seen, module)
			pending = nil
		case line == "":
		default:
			t.Fatalf("unexpected line %q", line)
		}
	}
	assert.True(t, slices.IsSorted(seen))
	assert.Len(t, slices.Compact(slices.Clone(seen)), len(seen))
}

func TestWrite_Idempotent(t *testing.T) {
	devices, idx := syntheticBoard(40)

	var first, second bytes.Buffer
	require.NoError(t, Write(&first, devices, idx))
	require.NoError(t, Write(&second, devices, idx))
	assert.Equal(t, first.Bytes(), second.Bytes())
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("pipe closed") }

func TestWrite_PropagatesWriteErrors(t *testing.T) {
	err := Write(failWriter{}, []types.Device{{Name: "a", Compatible: []string{"x"}}}, modalias.CompatibleIndex{})
	assert.ErrorContains(t, err, "pipe closed")
}
