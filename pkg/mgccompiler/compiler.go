// Package mgccompiler implements the top-level pipeline orchestrator:
// process_file drives one Engine through setup, one Song per
// (mml_text, track) pair, and finish, wiring together mgcpreprocess,
// mgcparser and mgcengine in that order.
package mgccompiler

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mgcints/mgcints/pkg/mgcconfig"
	"github.com/mgcints/mgcints/pkg/mgccursor"
	"github.com/mgcints/mgcints/pkg/mgcengine"
	"github.com/mgcints/mgcints/pkg/mgcerr"
	"github.com/mgcints/mgcints/pkg/mgcpreprocess"
	"github.com/mgcints/mgcints/pkg/mgctrace"
)

// Source is one MML text paired with the track index insert_cb receives
// for it (the framework accepts lists of (mml_text, track) pairs). Name
// is the original file path, used only for trace reporting; it may be
// left empty for sources with no backing file (e.g. in tests).
type Source struct {
	MML   string
	Track int
	Name  string
}

// ProcessFile runs the full compile pipeline against engine, writing to
// output via the engine's setup/insert/finish callbacks. It is the
// Compiler.process_file. cfg supplies the preprocessor's directive/comment
// symbols and the warning channel's strictness; a nil cfg runs with
// mgcconfig.DefaultConfig().
func ProcessFile(e *mgcengine.Engine, output io.WriterAt, sources []Source, cfg *mgcconfig.Config) error {
	if cfg == nil {
		cfg = mgcconfig.DefaultConfig()
	}

	if err := e.CallSetup(output); err != nil {
		return err
	}

	pp := &mgcpreprocess.Preprocessor{Prefix: cfg.Directive.Prefix, CommentToken: cfg.Directive.Comment}
	warnings := mgcconfig.NewWarnings(cfg.Warnings)
	for _, src := range sources {
		if err := processOne(e, pp, warnings, output, src); err != nil {
			return err
		}
	}

	return e.CallFinish(output)
}

func processOne(e *mgcengine.Engine, pp *mgcpreprocess.Preprocessor, warnings *mgcconfig.Warnings, output io.WriterAt, src Source) error {
	if warnings != nil {
		if err := warnNonASCII(warnings, src); err != nil {
			return err
		}
	}

	song := e.MakeSong()

	consumer := buildLineMap(src)

	stripped, err := pp.Process(song.Context, song, src.MML)
	if err != nil {
		return retrace(err, src, consumer)
	}

	if err := song.BeforeDefault(); err != nil {
		return err
	}

	cur := mgccursor.New(stripped)
	comment := pp.CommentToken
	if comment == "" {
		comment = mgcpreprocess.DefaultCommentToken
	}
	for {
		// A single-line comment (including the placeholder the
		// preprocessor leaves on each directive line) runs to end of line.
		cur = cur.SkipWhitespace()
		if res := cur.TrimLiteral(comment); res.Matched {
			if nl := res.Next.FindLiteral("\n"); nl.Found {
				cur = res.Next.Advance(nl.Start)
			} else {
				cur = res.Next.Seek(len(stripped))
			}
			continue
		}

		result, err := e.Parser.ReadCommand(cur)
		if err != nil {
			return retrace(err, src, consumer)
		}
		if result == nil {
			break
		}

		// Position recorded before apply, so a
		// RuntimeError raised inside Apply (including CommandError) can
		// be traced back to the command that caused it rather than
		// wherever the cursor ends up afterward.
		applyPos := cur.Seek(result.Start)
		applyErr := result.Cmd.Apply(song, song.ActiveChannels, song.SetCurrentChannel, result.Params)
		if applyErr != nil {
			return attachTrace(applyErr, applyPos, src, consumer)
		}

		cur = result.Next
	}

	if err := song.AfterDefault(); err != nil {
		return err
	}

	return e.CallInsert(output, song, src.Track)
}

// buildLineMap records the identity generated-line -> source-line
// mapping the preprocessor's 1:1 line-count guarantee produces (directive
// lines become ";", suppressed lines become "", but no line is ever
// inserted or removed), then round-trips it through mgctrace the same
// way a generator that didn't enjoy that guarantee would have to. A nil
// return (map construction failed) degrades traces to the stripped-text
// row, which for this preprocessor is numerically identical anyway.
func buildLineMap(src Source) *mgctrace.Consumer {
	lineCount := strings.Count(src.MML, "\n") + 1
	gen := mgctrace.NewGenerator(src.Name)
	for i := 1; i <= lineCount; i++ {
		gen.Add(i, i)
	}
	data, err := gen.Generate(src.Name + ".pp")
	if err != nil {
		return nil
	}
	consumer, err := mgctrace.NewConsumer(data)
	if err != nil {
		return nil
	}
	return consumer
}

// warnNonASCII fires the source-encoding warning (7-bit ASCII expected)
// at most once per source, via the shared warning channel so strict-mode
// promotion and once-per-format suppression apply uniformly. It prints
// straight to stderr rather than through a UI callback: unlike build
// progress, a warning can fire from any caller of ProcessFile, not just
// the CLI frontend.
func warnNonASCII(warnings *mgcconfig.Warnings, src Source) error {
	for i := 0; i < len(src.MML); i++ {
		if src.MML[i] >= 0x80 {
			message, emit, err := warnings.Warn("non-ASCII byte in source %q", src.Name)
			if err != nil {
				return err
			}
			if emit {
				fmt.Fprintln(os.Stderr, "warning: "+message)
			}
			return nil
		}
	}
	return nil
}

// retrace rebuilds an already-traced error (typically a SyntaxError from
// ReadCommand, or a preprocessor SyntaxError/RuntimeError) against the
// original MML text rather than the stripped text the parser actually
// walked, so the printed snippet shows the line the user wrote instead
// of a directive's ";" placeholder, and maps the stripped-text row back
// to the source row via consumer.
func retrace(err error, src Source, consumer *mgctrace.Consumer) error {
	me, ok := err.(*mgcerr.Error)
	if !ok || me.Trace == nil {
		return err
	}
	me.Trace = buildTrace(src, consumer, me.Trace.Row, me.Trace.Column, me.Trace.Length)
	return me
}

// attachTrace gives a RuntimeError (or one of its sub-kinds,
// CommandError/SyntaxError) a source trace at c if it doesn't already
// carry one. Errors outside the RuntimeError family, and errors the
// producing code already traced, pass through unchanged.
func attachTrace(err error, c mgccursor.Cursor, src Source, consumer *mgctrace.Consumer) error {
	me, ok := err.(*mgcerr.Error)
	if !ok || !me.IsRuntime() || me.Trace != nil {
		return err
	}
	row, col := c.RowCol()
	me.Trace = buildTrace(src, consumer, row, col, 1)
	return me
}

// buildTrace maps a stripped-text row back to its source row through
// consumer (a no-op for this preprocessor's identity mapping, but the
// real translation step for any future preprocessor stage that isn't
// 1:1), then renders the trace against the original MML text so error
// output always shows what the user actually wrote.
func buildTrace(src Source, consumer *mgctrace.Consumer, row, col, length int) *mgcerr.Trace {
	srcRow := row
	if consumer != nil {
		if mapped, ok := consumer.SourceLine(row); ok {
			srcRow = mapped
		}
	}
	return mgcerr.NewTrace(src.Name, src.MML, srcRow, col, length, 1)
}
