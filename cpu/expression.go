package cpu

import (
	"errors"
	"fmt"
	"strconv"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// equateValue parses an equate as an integer, in any Go literal base.
func equateValue(str string) (value int64, err error) {
	return strconv.ParseInt(str, 0, 64)
}

// evalExpression does compile-time $(...) evaluations. Integer equates are
// predeclared, and the result must fit in an immediate byte.
func (asm *Assembler) evalExpression(expr string) (value uint8, err error) {
	thread := starlark.Thread{Name: "expr"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		value64, perr := equateValue(str)
		if perr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < 0 || st_int64 > 0xff {
		err = ErrInvalidNumber(fmt.Sprintf("$(%v)", expr))
		return
	}

	value = uint8(st_int64)
	return
}
