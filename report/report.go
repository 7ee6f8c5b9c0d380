// Package report joins devices against a compatible index and renders the
// module listing.
//
// The listing is a commented pseudo-list: one group per module, in module
// name order, each preceded by the device/compatible pairs that selected it,
// followed by one comment per device nothing matched.
//
//	[
//
//	  # serial@9000 compatible="ns16550a"
//	  "8250_of"
//
//	  # unmatched #device(name='gpu@0', compatible=['acme,gpu'])
//	]
package report

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"slices"

	"github.com/joshuapare/dtbmods/pkg/types"
)

// Index resolves a compatible string to a module name.
type Index interface {
	Lookup(compatible string) (module string, ok bool)
}

// Request pairs a device with one of its compatible strings.
type Request struct {
	Device     types.Device
	Compatible string
}

// Group is a module and the requests that resolved to it.
type Group struct {
	Module   string
	Requests []Request
}

// Result is the outcome of a join.
type Result struct {
	// Groups are ordered by module name. Within a group, requests keep
	// device order and then compatible order.
	Groups []Group
	// Unmatched lists, in device order, every device whose name was not
	// matched by any request. Devices are identified by name only, so a
	// device sharing its name with a matched device is not listed.
	Unmatched []types.Device
}

// Match forms every (device, compatible) request, keeps those the index
// resolves, and groups them by module.
func Match(devices []types.Device, index Index) Result {
	type resolved struct {
		req    Request
		module string
	}

	var matched []resolved
	matchedNames := make(map[string]struct{})
	for _, dev := range devices {
		for _, c := range dev.Compatible {
			module, ok := index.Lookup(c)
			if !ok {
				continue
			}
			matched = append(matched, resolved{Request{Device: dev, Compatible: c}, module})
			matchedNames[dev.Name] = struct{}{}
		}
	}

	slices.SortStableFunc(matched, func(a, b resolved) int {
		return cmp.Compare(a.module, b.module)
	})

	var res Result
	for _, m := range matched {
		if n := len(res.Groups); n > 0 && res.Groups[n-1].Module == m.module {
			res.Groups[n-1].Requests = append(res.Groups[n-1].Requests, m.req)
			continue
		}
		res.Groups = append(res.Groups, Group{Module: m.module, Requests: []Request{m.req}})
	}

	for _, dev := range devices {
		if _, ok := matchedNames[dev.Name]; !ok {
			res.Unmatched = append(res.Unmatched, dev)
		}
	}
	return res
}

// Write renders the listing for devices against index.
func Write(w io.Writer, devices []types.Device, index Index) error {
	return WriteResult(w, Match(devices, index))
}

// WriteResult renders an already computed Result.
func WriteResult(w io.Writer, res Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "[")
	fmt.Fprintln(bw)
	for _, g := range res.Groups {
		for _, r := range g.Requests {
			fmt.Fprintf(bw, "  # %s compatible=\"%s\"\n", r.Device.Name, r.Compatible)
		}
		fmt.Fprintf(bw, "  \"%s\"\n", g.Module)
		fmt.Fprintln(bw)
	}
	for _, dev := range res.Unmatched {
		fmt.Fprintf(bw, "  # unmatched #%s\n", DeviceRepr(dev))
	}
	fmt.Fprintln(bw, "]")

	// bufio.Writer keeps the first write error; Flush reports it.
	return bw.Flush()
}
