package mgcpreprocess

import (
	"strings"

	"github.com/mgcints/mgcints/pkg/mgcerr"
)

// RemapTarget is implemented by whatever owns the channel-name table that
// "#remap n c" mutates (the engine's Song, in the real pipeline).
type RemapTarget interface {
	Remap(number string, channel string) error
}

// DefaultPrefix is the directive marker used when no config overrides it.
const DefaultPrefix = "#"

// DefaultCommentToken is the single-line comment marker tolerated after a
// directive's own arguments, used when no config overrides it.
const DefaultCommentToken = ";"

// Preprocessor runs the directive pass. It is
// stateless; all mutable state lives in the Context and RemapTarget
// passed to Process, so one Preprocessor can be shared across songs.
type Preprocessor struct {
	Prefix       string
	CommentToken string
}

// New creates a Preprocessor using DefaultPrefix and DefaultCommentToken.
func New() *Preprocessor {
	return &Preprocessor{Prefix: DefaultPrefix, CommentToken: DefaultCommentToken}
}

// Process walks source line by line, stripping a leading shebang (a first
// line starting with "#!") and replacing every directive line with ";" so
// line numbers are preserved for the source map, while lines suppressed
// by a false #if/#ifdef/#ifndef branch are blanked
// entirely rather than marked. It returns the rewritten MML text.
func (p *Preprocessor) Process(ctx *Context, remap RemapTarget, source string) (string, error) {
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	lines := strings.Split(source, "\n")
	out := make([]string, len(lines))

	for i, line := range lines {
		if i == 0 && strings.HasPrefix(line, "#!") {
			out[i] = ";"
			continue
		}

		if strings.HasPrefix(line, prefix) {
			if err := p.applyDirective(ctx, remap, line[len(prefix):]); err != nil {
				return "", err
			}
			out[i] = ";"
			continue
		}

		if ctx.Emits() {
			out[i] = line
		} else {
			out[i] = ""
		}
	}

	if ctx.IfDepth() != 0 {
		return "", mgcerr.Syntax("unterminated #if: %d level(s) still open at end of file", ctx.IfDepth())
	}

	return strings.Join(out, "\n"), nil
}

// applyDirective splits body into the directive keyword, its own
// arguments and whatever trails them, enforcing the "trailing text after
// a directive must be empty or a comment" rule uniformly for every
// directive instead of duplicating it per case.
func (p *Preprocessor) applyDirective(ctx *Context, remap RemapTarget, body string) error {
	commentToken := p.CommentToken
	if commentToken == "" {
		commentToken = DefaultCommentToken
	}
	directiveText := body
	if idx := strings.Index(body, commentToken); idx >= 0 {
		directiveText = body[:idx]
	}
	fields := strings.Fields(directiveText)
	if len(fields) == 0 {
		return mgcerr.Syntax("empty directive")
	}
	kw := fields[0]

	var want int
	switch kw {
	case "define":
		want = -1 // 1 or 2, checked below
	case "undef", "ifdef", "ifndef":
		want = 1
	case "if":
		want = 3
	case "else", "endif":
		want = 0
	case "remap":
		want = 2
	default:
		return mgcerr.Syntax("unknown directive %q", kw)
	}

	args := fields[1:]
	if kw == "define" {
		if len(args) != 1 && len(args) != 2 {
			return mgcerr.Runtime("trailing text after preprocessor directive")
		}
	} else if len(args) != want {
		return mgcerr.Runtime("trailing text after preprocessor directive")
	}

	switch kw {
	case "define":
		val := 1
		if len(args) == 2 {
			v, err := ctx.GetConstant(args[1])
			if err != nil {
				return err
			}
			val = v
		}
		return ctx.Define(args[0], val)

	case "undef":
		ctx.Undef(args[0])
		return nil

	case "ifdef":
		ctx.PushIf(ctx.IsDefined(args[0]))
		return nil

	case "ifndef":
		ctx.PushIf(!ctx.IsDefined(args[0]))
		return nil

	case "if":
		cond, err := evalCondition(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		ctx.PushIf(cond)
		return nil

	case "else":
		return ctx.Else()

	case "endif":
		return ctx.Endif()

	case "remap":
		if remap == nil {
			return mgcerr.Runtime("#remap used with no remap target bound")
		}
		return remap.Remap(args[0], args[1])
	}

	return nil
}

func evalCondition(ctx *Context, lhsTok, op, rhsTok string) (bool, error) {
	lhs, err := ctx.GetConstant(lhsTok)
	if err != nil {
		return false, err
	}
	rhs, err := ctx.GetConstant(rhsTok)
	if err != nil {
		return false, err
	}
	switch op {
	case "==":
		return lhs == rhs, nil
	case "!=":
		return lhs != rhs, nil
	case "<":
		return lhs < rhs, nil
	case "<=":
		return lhs <= rhs, nil
	case ">":
		return lhs > rhs, nil
	case ">=":
		return lhs >= rhs, nil
	default:
		return false, mgcerr.Syntax("unknown #if operator %q", op)
	}
}
