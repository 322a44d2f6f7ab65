package cpu

// Flag names one of the status flags.
type Flag int

const (
	FLAG_ZERO     = Flag(0) // Z
	FLAG_CARRY    = Flag(1) // C
	FLAG_SIGN     = Flag(2) // S
	FLAG_OVERFLOW = Flag(3) // O

	FLAG_COUNT = 4
)

var flagLetter = [FLAG_COUNT]string{"Z", "C", "S", "O"}

func (flag Flag) String() string {
	if flag < 0 || flag >= FLAG_COUNT {
		return "?"
	}
	return flagLetter[flag]
}

// Flags is the status register, replaced as a whole by every ALU operation.
type Flags struct {
	Zero     bool
	Carry    bool
	Sign     bool
	Overflow bool
}

func (fr *Flags) bit(flag Flag) *bool {
	switch flag {
	case FLAG_ZERO:
		return &fr.Zero
	case FLAG_CARRY:
		return &fr.Carry
	case FLAG_SIGN:
		return &fr.Sign
	case FLAG_OVERFLOW:
		return &fr.Overflow
	}
	return nil
}

// IsSet returns the state of a flag.
func (fr Flags) IsSet(flag Flag) bool {
	bit := fr.bit(flag)
	return bit != nil && *bit
}

// Set raises a flag.
func (fr *Flags) Set(flag Flag) {
	if bit := fr.bit(flag); bit != nil {
		*bit = true
	}
}

// Unset clears a flag.
func (fr *Flags) Unset(flag Flag) {
	if bit := fr.bit(flag); bit != nil {
		*bit = false
	}
}

// List returns the raised flags in Z, C, S, O order.
func (fr Flags) List() (flags []Flag) {
	for flag := range Flag(FLAG_COUNT) {
		if fr.IsSet(flag) {
			flags = append(flags, flag)
		}
	}
	return
}

// String returns the letters of the raised flags, ie "CS".
func (fr Flags) String() (text string) {
	for _, flag := range fr.List() {
		text += flag.String()
	}
	return
}
