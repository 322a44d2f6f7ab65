package io

import (
	"io"
	"slices"
)

// Ram is read-write storage that may be resized.
type Ram struct {
	Data []uint8
}

var _ WritableStorage = (*Ram)(nil)

// NewRam creates a zero filled Ram. Negative sizes are treated as 0.
func NewRam(size int) (ram *Ram) {
	size = max(size, 0)

	ram = &Ram{
		Data: make([]uint8, size),
	}

	return
}

// RamFrom creates a Ram holding a copy of data.
func RamFrom(data []uint8) (ram *Ram) {
	ram = &Ram{
		Data: slices.Clone(data),
	}

	return
}

// Size returns the number of bytes in the Ram.
func (ram *Ram) Size() int {
	return len(ram.Data)
}

// Get reads the byte at addr.
func (ram *Ram) Get(addr int) (value uint8, err error) {
	if !inBounds(addr, len(ram.Data)) {
		err = ErrOutOfBounds
		return
	}

	value = ram.Data[addr]
	return
}

// Set writes the byte at addr.
func (ram *Ram) Set(addr int, value uint8) (err error) {
	if !inBounds(addr, len(ram.Data)) {
		err = ErrOutOfBounds
		return
	}

	ram.Data[addr] = value
	return
}

// Resize pads the Ram with zeros when growing, and truncates when shrinking.
func (ram *Ram) Resize(size int) {
	if size < 0 {
		size = 0
	}

	if size <= len(ram.Data) {
		ram.Data = ram.Data[:size]
		return
	}

	ram.Data = append(ram.Data, make([]uint8, size-len(ram.Data))...)
}

// Unmarshal loads the Ram image from a reader, replacing any existing data.
func (ram *Ram) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return
	}

	ram.Data = data

	return
}

// Marshal writes the Ram image as flat bytes.
func (ram *Ram) Marshal(file io.Writer) (err error) {
	_, err = file.Write(ram.Data)

	return
}
