package io

import (
	"io"
)

// Rom is read-only storage, fixed in size at construction. A Rom is
// constructed either zero filled by NewRom, or from an image by Unmarshal
// into an empty Rom.
type Rom struct {
	Data []uint8
}

var _ Storage = (*Rom)(nil)

// NewRom creates a zero filled Rom. Negative sizes are treated as 0.
func NewRom(size int) (rom *Rom) {
	size = max(size, 0)

	rom = &Rom{
		Data: make([]uint8, size),
	}

	return
}

// Size returns the number of bytes in the Rom.
func (rom *Rom) Size() int {
	return len(rom.Data)
}

// Get reads the byte at addr.
func (rom *Rom) Get(addr int) (value uint8, err error) {
	if !inBounds(addr, len(rom.Data)) {
		err = ErrOutOfBounds
		return
	}

	value = rom.Data[addr]
	return
}

// Unmarshal loads the Rom image from a reader. Only an empty Rom may be
// loaded; a Rom with contents returns ErrRomLoaded, and is unchanged.
func (rom *Rom) Unmarshal(file io.Reader) (err error) {
	if len(rom.Data) != 0 {
		err = ErrRomLoaded
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	rom.Data = data

	return
}
