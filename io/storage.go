// Package io provides the byte storage and devices backing the MRT-CPU
// memory map: a read-only Rom, a resizable Ram, and the Serial output port
// that receives writes to the memory-mapped I/O address.
package io

// Storage is a bounded, indexable byte container.
type Storage interface {
	// Size returns the number of addressable bytes.
	Size() int
	// Get reads the byte at addr, or returns ErrOutOfBounds.
	Get(addr int) (value uint8, err error)
}

// WritableStorage is a Storage that can be modified and resized.
type WritableStorage interface {
	Storage
	// Set writes the byte at addr, or returns ErrOutOfBounds.
	Set(addr int, value uint8) error
	// Resize grows the storage with zeros, or truncates it.
	Resize(size int)
}

// inBounds checks an address against a storage size.
func inBounds(addr int, size int) bool {
	return addr >= 0 && addr < size
}
