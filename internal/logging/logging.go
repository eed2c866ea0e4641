// Package logging provides the interpreter's debug-trace logger.
//
// Shaped after pongo2's pongo2_options.go: a package-level debug gate
// (SetDebug) and a logf-style call gated behind it, so call sites read
// the same way the teacher's do. The backing logger is
// go.uber.org/zap's SugaredLogger rather than the teacher's stdlib
// log.Logger (see SPEC_FULL.md's ambient-stack section).
package logging

import "go.uber.org/zap"

var (
	debug  bool
	sugar  *zap.SugaredLogger
)

func init() {
	l, err := zap.NewDevelopment()
	if err != nil {
		l = zap.NewNop()
	}
	sugar = l.Sugar()
}

// SetDebug toggles whether Debugf calls actually emit anything.
func SetDebug(b bool) { debug = b }

// Debugf logs a formatted debug trace when debug logging is enabled.
func Debugf(format string, args ...any) {
	if debug {
		sugar.Debugf(format, args...)
	}
}

// Errorf always logs, regardless of the debug gate — used for
// diagnostics the operator should see even without --debug.
func Errorf(format string, args ...any) {
	sugar.Errorf(format, args...)
}

// Sync flushes the underlying logger; call before process exit.
func Sync() {
	_ = sugar.Sync()
}
