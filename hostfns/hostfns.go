// Package hostfns supplies the host-provided callables injected at
// interpreter construction (spec.md §1, §4.H "Host primitives
// required", and §6's external-interface "table of host-provided
// callables"). Nothing in interp imports this package — hostfns
// depends only on the value.NativeFn shape, and interp never on
// hostfns, so the evaluator stays free of any host-OS dependency.
//
// horologium and manere are the two primitives spec.md §4.H requires.
// audire/legere/mutare/salvare are the supplemented primitives
// (SPEC_FULL.md) grounded on original_source/altars/src/nativefn.rs.
package hostfns

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/juju/errors"

	"github.com/daemonica-lang/altars/value"
)

// Table returns the full set of native primitives, keyed by their
// Daemonica surface name, ready to hand to interp.New.
func Table(stdin *bufio.Reader) map[string]*value.NativeFn {
	return map[string]*value.NativeFn{
		"horologium": horologium(),
		"manere":     manere(),
		"audire":     audire(stdin),
		"legere":     legere(),
		"mutare":     mutare(),
		"salvare":    salvare(),
	}
}

// horologium() — current wall-clock time in milliseconds since epoch.
func horologium() *value.NativeFn {
	return &value.NativeFn{
		Name:  "horologium",
		Arity: 0,
		Invoke: func(_ any, _ []value.Value) (value.Value, error) {
			return value.NewNumber(float64(time.Now().UnixMilli())), nil
		},
	}
}

// manere(n) — block for round(n) whole seconds.
func manere() *value.NativeFn {
	return &value.NativeFn{
		Name:  "manere",
		Arity: 1,
		Invoke: func(_ any, args []value.Value) (value.Value, error) {
			if !args[0].IsNumber() {
				return value.Value{}, errors.New("manere expects a number of seconds")
			}
			seconds := int64(args[0].Number() + 0.5)
			time.Sleep(time.Duration(seconds) * time.Second)
			return value.NewEmpty(), nil
		},
	}
}

// audire() — read one line from stdin, returning it as a String.
func audire(stdin *bufio.Reader) *value.NativeFn {
	return &value.NativeFn{
		Name:  "audire",
		Arity: 0,
		Invoke: func(_ any, _ []value.Value) (value.Value, error) {
			line, err := stdin.ReadString('\n')
			if err != nil && line == "" {
				return value.Value{}, errors.Annotate(err, "audire: reading stdin")
			}
			return value.NewString(trimNewline(line)), nil
		},
	}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// legere(path) — read a file to a String; I/O errors become runtime
// errors per spec.md §7.
func legere() *value.NativeFn {
	return &value.NativeFn{
		Name:  "legere",
		Arity: 1,
		Invoke: func(_ any, args []value.Value) (value.Value, error) {
			if !args[0].IsString() {
				return value.Value{}, errors.New("legere expects a path string")
			}
			data, err := os.ReadFile(args[0].Str())
			if err != nil {
				return value.Value{}, errors.Annotatef(err, "legere: reading %q", args[0].Str())
			}
			return value.NewString(string(data)), nil
		},
	}
}

// mutare(x) — coerce String<->Number depending on the input's kind.
func mutare() *value.NativeFn {
	return &value.NativeFn{
		Name:  "mutare",
		Arity: 1,
		Invoke: func(_ any, args []value.Value) (value.Value, error) {
			switch {
			case args[0].IsString():
				n, err := strconv.ParseFloat(args[0].Str(), 64)
				if err != nil {
					return value.Value{}, errors.Annotatef(err, "mutare: %q is not numeric", args[0].Str())
				}
				return value.NewNumber(n), nil
			case args[0].IsNumber():
				return value.NewString(fmt.Sprintf("%g", args[0].Number())), nil
			default:
				return value.Value{}, errors.Errorf("mutare: cannot coerce value of kind %d", args[0].Kind())
			}
		},
	}
}

// salvare(path, contents) — write a string to a file; Empty on success.
func salvare() *value.NativeFn {
	return &value.NativeFn{
		Name:  "salvare",
		Arity: 2,
		Invoke: func(_ any, args []value.Value) (value.Value, error) {
			if !args[0].IsString() || !args[1].IsString() {
				return value.Value{}, errors.New("salvare expects (path, contents) as strings")
			}
			if err := os.WriteFile(args[0].Str(), []byte(args[1].Str()), 0o644); err != nil {
				return value.Value{}, errors.Annotatef(err, "salvare: writing %q", args[0].Str())
			}
			return value.NewEmpty(), nil
		},
	}
}
