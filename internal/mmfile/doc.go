// Package mmfile provides platform-specific helpers for mapping device tree
// images into memory.
package mmfile
