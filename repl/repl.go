// Package repl implements Daemonica's interactive shell: a persistent
// Interpreter fed one line (or one bracket-balanced chunk) at a time,
// surviving per-line lex/parse/runtime errors the way spec.md's Open
// Questions section settles (SPEC_FULL.md): report and keep going,
// rather than aborting the session.
//
// Grounded on pongo2's own command-line posture (the teacher ships no
// REPL, only pongo2_cli's one-shot render) generalized using
// github.com/chzyer/readline for line editing/history and
// github.com/fatih/color for error highlighting — both drawn from the
// rest of the example pack's CLI tooling (SPEC_FULL.md's ambient
// Config/CLI section).
package repl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/daemonica-lang/altars/hostfns"
	"github.com/daemonica-lang/altars/interp"
	"github.com/daemonica-lang/altars/lexer"
	"github.com/daemonica-lang/altars/parser"
)

const prompt = "Daemonica> "

var errColor = color.New(color.FgRed, color.Bold)

// REPL is a persistent-environment read-eval-print loop over stdin.
type REPL struct {
	it     *interp.Interpreter
	rl     *readline.Instance
	out    io.Writer
	source int
}

// New constructs a REPL, wiring the host primitive table (audire reads
// directly from os.Stdin, independent of the readline-managed prompt
// line) into a fresh Interpreter.
func New(cfg interp.Config, historyFile string) (*REPL, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: historyFile,
	})
	if err != nil {
		return nil, err
	}
	natives := hostfns.Table(bufio.NewReader(os.Stdin))
	return &REPL{
		it:  interp.New(cfg, natives),
		rl:  rl,
		out: cfg.Stdout,
	}, nil
}

// Close releases the underlying readline instance.
func (r *REPL) Close() error { return r.rl.Close() }

// Run reads lines until EOF (ctrl-D) or an interrupt (ctrl-C while no
// multi-line chunk is pending; ctrl-C during a pending chunk discards
// it), evaluating each complete statement chunk against the REPL's
// single persistent Interpreter.
func (r *REPL) Run() error {
	var pending strings.Builder
	for {
		line, err := r.rl.Readline()
		switch err {
		case readline.ErrInterrupt:
			if pending.Len() == 0 {
				return nil
			}
			pending.Reset()
			continue
		case io.EOF:
			return nil
		case nil:
			// fall through
		default:
			return err
		}

		pending.WriteString(line)
		pending.WriteByte('\n')
		if !balanced(pending.String()) {
			continue
		}

		chunk := pending.String()
		pending.Reset()
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		r.evalChunk(chunk)
	}
}

// balanced reports whether chunk has no unmatched '{' — a line ending
// mid-block keeps accumulating instead of being parsed prematurely.
func balanced(chunk string) bool {
	depth := 0
	for _, r := range chunk {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
		}
	}
	return depth <= 0
}

func (r *REPL) evalChunk(src string) {
	r.source++
	name := fmt.Sprintf("<repl:%d>", r.source)

	toks, err := lexer.Scan(name, src)
	if err != nil {
		r.reportError(err)
		return
	}
	program, err := parser.Parse(name, toks)
	if err != nil {
		r.reportError(err)
		return
	}
	results, err := r.it.Run(program)
	if err != nil {
		r.reportError(err)
		return
	}
	if len(results) > 0 {
		last := results[len(results)-1]
		if !last.IsEmpty() {
			fmt.Fprintln(r.out, last.String())
		}
	}
}

func (r *REPL) reportError(err error) {
	errColor.Fprintf(r.out, "%s\n", err.Error())
}
