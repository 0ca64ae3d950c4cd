// Package main implements the MGCInts CLI: compile an MML source
// file against a named engine and patch the result into an output
// ROM/NSF image.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgcints/mgcints/internal/mgcui"
	"github.com/mgcints/mgcints/pkg/mgccompiler"
	"github.com/mgcints/mgcints/pkg/mgcconfig"
)

var version = "0.1.0"

func main() {
	var engineFlag, inputFlag, outputFlag string
	var track int
	var strict bool

	root := &cobra.Command{
		Use:          "mgcints [engine] [input] [output] [param...]",
		Short:        "MGCInts - MML compiler and ROM/NSF patcher",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args, engineFlag, inputFlag, outputFlag, track, strict)
		},
	}

	root.Flags().StringVarP(&engineFlag, "engine", "e", "", "engine name (mutually exclusive with the positional engine argument)")
	root.Flags().StringVarP(&inputFlag, "input", "i", "", "input MML source file (mutually exclusive with the positional input argument)")
	root.Flags().StringVarP(&outputFlag, "output", "o", "", "output ROM/NSF file (mutually exclusive with the positional output argument)")
	root.Flags().IntVarP(&track, "track", "t", 1, "track index passed to insert_cb")
	root.Flags().BoolVar(&strict, "strict", false, "promote warnings (e.g. non-ASCII source) to errors, overriding config")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolvedArgs is engine/input/output/param... after reconciling flags
// against positional arguments (engine/input/output flags are mutually
// exclusive with their respective positional argument).
type resolvedArgs struct {
	engine, input, output string
	params                []string
}

func resolveArgs(args []string, engineFlag, inputFlag, outputFlag string) (resolvedArgs, error) {
	var r resolvedArgs
	positional := make([]string, len(args))
	copy(positional, args)

	// A flag takes its slot outright (-e/-i/-o are mutually exclusive
	// with their respective positional); otherwise the slot is
	// filled from the next unconsumed positional argument, in order.
	take := func(flagVal string) string {
		if flagVal != "" {
			return flagVal
		}
		if len(positional) == 0 {
			return ""
		}
		v := positional[0]
		positional = positional[1:]
		return v
	}

	r.engine = take(engineFlag)
	r.input = take(inputFlag)
	r.output = take(outputFlag)
	r.params = positional

	if r.engine == "" {
		return r, fmt.Errorf("an engine is required (positional or -e)")
	}
	return r, nil
}

func run(args []string, engineFlag, inputFlag, outputFlag string, track int, strict bool) error {
	ra, err := resolveArgs(args, engineFlag, inputFlag, outputFlag)
	if err != nil {
		return err
	}

	var overrides *mgcconfig.Config
	if strict {
		overrides = &mgcconfig.Config{Warnings: mgcconfig.WarningConfig{Strict: true}}
	}
	cfg, err := mgcconfig.Load(overrides)
	if err != nil {
		return err
	}

	e, err := ResolveEngine(ra.engine)
	if err != nil {
		return err
	}

	out := mgcui.New()
	out.PrintHeader(version)
	out.PrintFile(ra.input, ra.output)

	mml, err := os.ReadFile(ra.input)
	if err != nil {
		out.PrintStep(mgcui.Step{Name: "Preprocess", Status: mgcui.StepError, Message: err.Error()})
		out.PrintSummary(false, err.Error())
		return err
	}

	f, err := os.OpenFile(ra.output, os.O_RDWR, 0o644)
	if err != nil {
		out.PrintStep(mgcui.Step{Name: "Link", Status: mgcui.StepError, Message: err.Error()})
		out.PrintSummary(false, err.Error())
		return err
	}
	defer f.Close()

	sources := []mgccompiler.Source{{MML: string(mml), Track: track, Name: ra.input}}
	if err := mgccompiler.ProcessFile(e, f, sources, cfg); err != nil {
		out.PrintStep(mgcui.Step{Name: "Compile", Status: mgcui.StepError, Message: err.Error()})
		out.PrintSummary(false, err.Error())
		return err
	}

	out.PrintStep(mgcui.Step{Name: "Compile", Status: mgcui.StepSuccess})
	out.PrintSummary(true, "")
	return nil
}
