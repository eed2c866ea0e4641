// Command altars is Daemonica's driver (spec.md §6): run a single
// source file non-interactively, or launch the REPL when invoked with
// no file argument.
//
// Grounded on the rest of the example pack's cobra-based CLI entry
// points (SPEC_FULL.md's ambient Config/CLI section) rather than the
// teacher, which ships no command-line tool of its own.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daemonica-lang/altars/hostfns"
	"github.com/daemonica-lang/altars/internal/logging"
	"github.com/daemonica-lang/altars/interp"
	"github.com/daemonica-lang/altars/lexer"
	"github.com/daemonica-lang/altars/parser"
	"github.com/daemonica-lang/altars/repl"
)

var (
	flagDebug        bool
	flagLooseDivZero bool
	flagMaxCallDepth int
	flagHistoryFile  string
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "altars [sourcefile]",
		Short:   "Daemonica: a small incantation language",
		Args:    cobra.MaximumNArgs(1),
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.SetDebug(flagDebug)
			defer logging.Sync()

			cfg := interp.DefaultConfig()
			cfg.DivByZeroGuardsBothOperands = !flagLooseDivZero
			cfg.MaxCallDepth = flagMaxCallDepth
			cfg.Stdout = cmd.OutOrStdout()

			if len(args) == 0 {
				return runREPL(cfg)
			}
			return runFile(cfg, args[0])
		},
	}

	cmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug tracing to stderr")
	cmd.Flags().BoolVar(&flagLooseDivZero, "loose-div-zero", false,
		"error only on a zero divisor, instead of either operand being zero")
	cmd.Flags().IntVar(&flagMaxCallDepth, "max-call-depth", 1000, "maximum user-function call recursion depth")
	cmd.Flags().StringVar(&flagHistoryFile, "history-file", historyFilePath(), "REPL history file path")
	return cmd
}

func historyFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".altars_history"
	}
	return home + "/.altars_history"
}

func runREPL(cfg interp.Config) error {
	r, err := repl.New(cfg, flagHistoryFile)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.Run()
}

func runFile(cfg interp.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("altars: reading %q: %w", path, err)
	}

	toks, err := lexer.Scan(path, string(data))
	if err != nil {
		return err
	}
	program, err := parser.Parse(path, toks)
	if err != nil {
		return err
	}

	natives := hostfns.Table(bufio.NewReader(os.Stdin))
	it := interp.New(cfg, natives)
	if _, err := it.Run(program); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "--- environment at failure ---")
		dumpEnvironment(it)
		return err
	}
	return nil
}

func dumpEnvironment(it *interp.Interpreter) {
	for name, v := range it.Environment().Snapshot() {
		fmt.Fprintf(os.Stderr, "%s = %s\n", name, v.String())
	}
}
