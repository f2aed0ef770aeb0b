// Command nirc decodes a JSON AST document, lowers it to NIR (spec
// §4.3, §4.4), and optionally prints the resulting disassembly.
package main

import (
	"fmt"
	"os"

	"github.com/nirlang/nirc/diag"
	"github.com/nirlang/nirc/internal/logging"
	"github.com/nirlang/nirc/internal/nirjson"
	"github.com/nirlang/nirc/lower"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
)

var (
	inputPath string
	verbose   bool
	printNIR  bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "nirc",
		Short: "nirc lowers a typed AST to NewLang's intermediate representation",
	}

	lowerCmd := &cobra.Command{
		Use:   "lower",
		Short: "decode an AST document and lower it to NIR",
		RunE:  runLower,
	}
	lowerCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "path to a JSON AST document, or - for stdin")
	lowerCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable development-mode logging")
	lowerCmd.Flags().BoolVar(&printNIR, "print", false, "print the textual NIR form of every lowered function")

	root.AddCommand(lowerCmd)
	return root
}

func runLower(cmd *cobra.Command, args []string) error {
	log, err := logging.New(verbose)
	if err != nil {
		return xerrors.Errorf("nirc: building logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	in := os.Stdin
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return xerrors.Errorf("nirc: opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	file, err := nirjson.DecodeFile(in)
	if err != nil {
		return xerrors.Errorf("nirc: decoding AST: %w", err)
	}

	sink := &diag.Collector{}
	driver := lower.NewDriver(sink)
	driver.Log = log

	functions := driver.Run(file.Declarations)

	log.Infow("lowering finished", "functions", len(functions), "diagnostics", len(sink.Diagnostics()))

	if printNIR {
		for _, fn := range functions {
			fmt.Print(fn.String())
		}
	}

	if !sink.Empty() {
		fmt.Fprint(os.Stderr, sink.String())
		return xerrors.New("nirc: lowering completed with diagnostics")
	}
	return nil
}
