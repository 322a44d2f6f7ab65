package io

import (
	"io"
	"unicode/utf8"
)

// SERIAL_ADDRESS is the memory-mapped address of the serial output port.
const SERIAL_ADDRESS = 0

// Serial is the character output port. Each byte sent names a Latin-1
// character, and is written to Output UTF-8 encoded. A nil Output discards
// the byte.
type Serial struct {
	Output io.Writer

	Written int // Number of bytes sent since the last Rewind.
}

// Rewind resets the sent byte counter.
func (sc *Serial) Rewind() {
	sc.Written = 0
}

// Send writes a single byte to the output stream.
func (sc *Serial) Send(value uint8) (err error) {
	sc.Written++

	if sc.Output == nil {
		return
	}

	_, err = sc.Output.Write(utf8.AppendRune(nil, rune(value)))

	return
}
