// Copyright 2025 The Strada Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package router

import (
	"regexp"
	"strings"
)

// Pattern is a compiled route path template.
//
// A template is a sequence of /-separated segments:
//   - a literal segment matches itself verbatim
//   - ":name" matches one non-empty path segment and captures it
//   - ":name?" is like ":name" but the segment may be absent entirely
//   - "*" as the final segment matches any remainder, including nothing
//
// Matching is trailing-slash insensitive: "/users" and "/users/" are
// equivalent both as templates and as request paths. The only exception is
// the root template "/", which keeps its slash.
//
// Compilation is total. Any input string yields a usable Pattern; input that
// cannot be expressed as segments degrades to a literal-prefix match rather
// than failing. A Pattern is immutable after construction and safe for
// concurrent use.
//
// Optional parameters are intended for the trailing position(s) of a
// template. An optional segment followed by required segments is accepted,
// but matching then follows whatever the compiled expression produces; lean
// on trailing optionals only.
//
// Example:
//
//	p := CompilePattern("/users/:id/:tab?")
//	p.Matches("/users/42")        // true
//	p.Matches("/users/42/posts")  // true
//	p.Matches("/users")           // false
type Pattern struct {
	raw        string
	re         *regexp.Regexp
	paramNames []string
	wildcard   bool
}

// CompilePattern compiles a path template into a Pattern.
// It never fails; see the Pattern type documentation for degradation rules.
func CompilePattern(path string) *Pattern {
	p := &Pattern{
		raw:      path,
		wildcard: strings.HasSuffix(path, "/*"),
	}

	normalized := normalizePath(path)

	var expr strings.Builder
	expr.WriteString("^")

	for _, segment := range strings.Split(normalized, "/") {
		if segment == "" {
			// Leading or doubled slashes produce empty segments; skip them.
			continue
		}

		switch {
		case segment == "*":
			expr.WriteString("(?:/.*)?")
		case strings.HasPrefix(segment, ":") && strings.HasSuffix(segment, "?") && len(segment) > 2:
			p.paramNames = append(p.paramNames, segment[1:len(segment)-1])
			expr.WriteString("(?:/([^/]+))?")
		case strings.HasPrefix(segment, ":") && len(segment) > 1:
			p.paramNames = append(p.paramNames, segment[1:])
			expr.WriteString("/([^/]+)")
		default:
			expr.WriteString("/")
			expr.WriteString(regexp.QuoteMeta(segment))
		}
	}

	// Anchor to the full path, tolerating one trailing slash.
	expr.WriteString("/?$")

	re, err := regexp.Compile(expr.String())
	if err != nil {
		// Unreachable with the templates above, but compilation must be
		// total: fall back to a literal-prefix matcher.
		re = regexp.MustCompile("^" + regexp.QuoteMeta(normalized))
		p.paramNames = nil
	}
	p.re = re

	return p
}

// String returns the template exactly as it was registered.
func (p *Pattern) String() string {
	return p.raw
}

// ParamNames returns the parameter names in declaration order.
// The returned slice must not be modified.
func (p *Pattern) ParamNames() []string {
	return p.paramNames
}

// Wildcard reports whether the template ends in "/*".
func (p *Pattern) Wildcard() bool {
	return p.wildcard
}

// Matches reports whether the given request path matches the pattern.
// It has no side effects and never fails.
func (p *Pattern) Matches(path string) bool {
	return p.re.MatchString(normalizePath(path))
}

// Match tests the path against the pattern and returns the captured
// parameter values aligned with ParamNames. An optional parameter that did
// not participate in the match has an empty string at its position.
// The second return is false when the path does not match at all.
func (p *Pattern) Match(path string) ([]string, bool) {
	m := p.re.FindStringSubmatch(normalizePath(path))
	if m == nil {
		return nil, false
	}
	if len(m) < 2 {
		return nil, true
	}
	return m[1:], true
}

// MatchParams is like Match but returns a name-to-value map.
// Parameters that did not participate in the match are omitted, not present
// with an empty value. A non-matching path yields an empty map.
func (p *Pattern) MatchParams(path string) map[string]string {
	values, ok := p.Match(path)
	if !ok {
		return map[string]string{}
	}

	params := make(map[string]string, len(p.paramNames))
	for i, name := range p.paramNames {
		if i < len(values) && values[i] != "" {
			params[name] = values[i]
		}
	}
	return params
}

// normalizePath strips a single trailing slash, except for the root path.
func normalizePath(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	return path
}
