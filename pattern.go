package mercury

import (
	"regexp"
	"strings"
)

// CompiledPattern is the matcher derived from a route pattern string.
// Compilation is pure: the same pattern always yields a structurally
// identical CompiledPattern.
type CompiledPattern struct {
	source string
	expr   *regexp.Regexp
	names  []string
}

// SplatName is the symbolic parameter name contributed by a bare `*`.
const SplatName = "splat"

const (
	namedGroup = `([^/?&#]+)`
	splatGroup = `(.*?)`
)

// Compile translates a route pattern into an anchored matcher.
//
// Two placeholder forms are recognized: `:name` captures a single path
// segment (one or more characters excluding `/?&#`), and `*` captures zero
// or more characters across segment boundaries, non-greedily. Everything
// else matches verbatim, with regexp metacharacters escaped. A trailing
// slash on the request path is always accepted, whether or not the pattern
// ends in one.
func Compile(pattern string) CompiledPattern {
	var (
		expr    strings.Builder
		literal strings.Builder
		names   []string
	)

	flush := func() {
		if literal.Len() > 0 {
			expr.WriteString(regexp.QuoteMeta(literal.String()))
			literal.Reset()
		}
	}

	body := strings.TrimSuffix(pattern, "/")

	for i := 0; i < len(body); i++ {
		switch c := body[i]; c {
		case ':':
			name, width := scanParamName(body[i+1:])
			if width == 0 {
				// A bare ':' with no name is a literal colon.
				literal.WriteByte(c)
				continue
			}
			flush()
			expr.WriteString(namedGroup)
			names = append(names, name)
			i += width
		case '*':
			flush()
			expr.WriteString(splatGroup)
			names = append(names, SplatName)
		default:
			literal.WriteByte(c)
		}
	}
	flush()

	return CompiledPattern{
		source: pattern,
		expr:   regexp.MustCompile(`^` + expr.String() + `/?$`),
		names:  names,
	}
}

// scanParamName reads a parameter identifier (letters, digits, underscore)
// and returns it with the number of bytes consumed.
func scanParamName(s string) (string, int) {
	i := 0
	for i < len(s) && isParamNameByte(s[i]) {
		i++
	}
	return s[:i], i
}

func isParamNameByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// Source returns the original pattern string.
func (p CompiledPattern) Source() string { return p.source }

// Expr returns the compiled matcher expression.
func (p CompiledPattern) Expr() string { return p.expr.String() }

// ParamNames returns the capture names in left-to-right order. Splat
// captures appear as SplatName.
func (p CompiledPattern) ParamNames() []string {
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}
