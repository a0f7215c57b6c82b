package mercury

import "net/url"

// Params holds the parameters extracted from one successful pattern match.
// Named captures live in a name→value map; splat captures are aggregated
// into an ordered list. A Params value belongs to a single handler
// invocation and is discarded when the handler returns.
type Params struct {
	named map[string]string
	splat []string
}

// Get returns the decoded value captured under name, or "" if the pattern
// has no such parameter.
func (p Params) Get(name string) string { return p.named[name] }

// Has reports whether the pattern captured a parameter under name.
func (p Params) Has(name string) bool {
	_, ok := p.named[name]
	return ok
}

// Splat returns the decoded values of all `*` captures, in encounter order.
func (p Params) Splat() []string { return p.splat }

// Len returns the number of distinct named parameters.
func (p Params) Len() int { return len(p.named) }

// Match applies the compiled matcher to a raw request path. On success it
// walks the capture list in order: splat captures append to the splat list,
// named captures store under their name with last-write-wins on duplicates.
// All values are URL-decoded before exposure.
func (p CompiledPattern) Match(path string) (Params, bool) {
	groups := p.expr.FindStringSubmatch(path)
	if groups == nil {
		return Params{}, false
	}

	params := Params{named: make(map[string]string, len(p.names))}
	for i, name := range p.names {
		value := decodeCapture(groups[i+1])
		if name == SplatName {
			params.splat = append(params.splat, value)
			continue
		}
		params.named[name] = value
	}
	return params, true
}

// decodeCapture percent-decodes a captured value, falling back to the raw
// capture when the path carries a malformed escape.
func decodeCapture(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
