// Package walker enumerates device tree nodes and the devices they describe.
//
// # Traversal
//
// AllNodes performs a pre-order depth-first traversal starting at "/". It is
// iterative: an explicit stack holds pending nodes, and each popped node
// pushes its next sibling and then its first child, so a node's whole
// subtree is yielded before its next sibling.
//
//	for id, err := range walker.AllNodes(r) {
//	    if err != nil {
//	        return err
//	    }
//	    name, _ := r.Name(id)
//	    fmt.Println(name)
//	}
//
// A navigation "not found" ends a branch; any other navigation error is
// yielded once and the sequence stops.
//
// # Devices
//
// AllDevices maps AllNodes through the "compatible" property. Nodes without
// the property are skipped; the value is split into its NUL-terminated
// strings in on-disk order.
//
//	devices, err := walker.Devices(r)
//
// Both sequences are single-pass. Ranging over the same sequence again
// restarts from the root.
package walker
