// Package profile resolves symbolic path expressions against a build profile.
//
// Expressions use {Variable} references, e.g. "{Remote.BuildPath}/ui".
// The resolver is the narrow seam to the host settings system: the splitter
// only ever asks for a concrete string and treats an empty result as
// unresolved.
package profile

import (
	"regexp"
	"strings"
)

// Resolver resolves a symbolic path expression to a concrete path or URL.
// Implementations return "" when the expression cannot be resolved.
type Resolver interface {
	Resolve(expr string) string
	// SettingID returns the identity of the path setting a variable
	// reference points at. Two expressions share a setting identity only
	// when they reference the same underlying variable, regardless of what
	// string the variable resolves to.
	SettingID(expr string) string
}

var varPattern = regexp.MustCompile(`\{([^{}]+)\}`)

// MapResolver resolves variables from a static profile map.
type MapResolver struct {
	vars map[string]string
}

// NewMapResolver creates a resolver over the given profile variables.
func NewMapResolver(vars map[string]string) *MapResolver {
	if vars == nil {
		vars = map[string]string{}
	}
	return &MapResolver{vars: vars}
}

// Resolve expands every {Variable} reference in the expression. If any
// referenced variable is unknown the whole expression is unresolved and ""
// is returned.
func (r *MapResolver) Resolve(expr string) string {
	if expr == "" {
		return ""
	}
	unresolved := false
	out := varPattern.ReplaceAllStringFunc(expr, func(m string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(m, "{"), "}")
		val, ok := r.vars[name]
		if !ok {
			unresolved = true
			return ""
		}
		return val
	})
	if unresolved {
		return ""
	}
	return out
}

// SettingID returns the first variable referenced by the expression, or the
// expression itself when it contains no variable reference. This is the
// identity used to decide whether two catalogs build into the same
// configured path setting.
func (r *MapResolver) SettingID(expr string) string {
	if m := varPattern.FindStringSubmatch(expr); m != nil {
		return m[1]
	}
	return expr
}
