// Command dtbmods lists the kernel modules needed by the devices in a
// flattened device tree, using a modules.alias file to map compatible
// strings to modules.
package main

import "os"

func main() {
	os.Exit(execute())
}
