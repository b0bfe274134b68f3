package schema

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	js "github.com/blert-io/bcf/jsonschema"
)

// ---- string ----

// StringNode validates strings with optional length, pattern and format
// constraints.
type StringNode struct {
	minLen  int
	maxLen  int
	pattern *regexp.Regexp
	format  string
}

// String returns an unconstrained string node.
func String() *StringNode { return &StringNode{minLen: -1, maxLen: -1} }

// Min sets the minimum length in characters.
func (s *StringNode) Min(n int) *StringNode { s.minLen = n; return s }

// Max sets the maximum length in characters.
func (s *StringNode) Max(n int) *StringNode { s.maxLen = n; return s }

// Pattern sets a regular expression the value must match. It panics on an
// invalid expression, since grammars are static.
func (s *StringNode) Pattern(expr string) *StringNode {
	s.pattern = regexp.MustCompile(expr)
	return s
}

// Format records a JSON Schema format annotation. Formats are exported but
// not enforced.
func (s *StringNode) Format(f string) *StringNode { s.format = f; return s }

func (s *StringNode) Check(v any, at PathRef) Issues {
	str, ok := v.(string)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "string"})}
	}
	var iss Issues
	n := utf8.RuneCountInString(str)
	if s.minLen >= 0 && n < s.minLen {
		iss = AppendIssues(iss, issueAt(at, CodeTooShort, map[string]string{"limit": strconv.Itoa(s.minLen), "unit": "characters"}))
	}
	if s.maxLen >= 0 && n > s.maxLen {
		iss = AppendIssues(iss, issueAt(at, CodeTooLong, map[string]string{"limit": strconv.Itoa(s.maxLen), "unit": "characters"}))
	}
	if s.pattern != nil && !s.pattern.MatchString(str) {
		iss = AppendIssues(iss, issueAt(at, CodePattern, map[string]string{"pattern": s.pattern.String()}))
	}
	return iss
}

func (s *StringNode) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "string", Format: s.format}
	if s.minLen >= 0 {
		out.MinLength = intPtr(s.minLen)
	}
	if s.maxLen >= 0 {
		out.MaxLength = intPtr(s.maxLen)
	}
	if s.pattern != nil {
		out.Pattern = s.pattern.String()
	}
	return out
}

// ---- const / enum ----

type constNode struct{ value string }

// Const matches exactly one string value.
func Const(value string) Node { return constNode{value: value} }

func (c constNode) Check(v any, at PathRef) Issues {
	str, ok := v.(string)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "string"})}
	}
	if str != c.value {
		return Issues{issueAt(at, CodeInvalidConst, map[string]string{"expected": c.value})}
	}
	return nil
}

func (c constNode) JSONSchema() *js.Schema { return &js.Schema{Type: "string", Const: c.value} }

type enumNode struct{ values []string }

// Enum matches any of the given string values.
func Enum(values ...string) Node { return enumNode{values: append([]string(nil), values...)} }

func (e enumNode) Check(v any, at PathRef) Issues {
	str, ok := v.(string)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "string"})}
	}
	for _, allowed := range e.values {
		if str == allowed {
			return nil
		}
	}
	return Issues{issueAt(at, CodeInvalidEnum, map[string]string{"allowed": quoteList(e.values)})}
}

func (e enumNode) JSONSchema() *js.Schema {
	vals := make([]any, len(e.values))
	for i, v := range e.values {
		vals[i] = v
	}
	return &js.Schema{Type: "string", Enum: vals}
}

func quoteList(values []string) string {
	q := make([]string, len(values))
	for i, v := range values {
		q[i] = strconv.Quote(v)
	}
	return strings.Join(q, ", ")
}

// ---- numbers ----

// NumberNode validates numbers, optionally restricted to integers and a
// closed range.
type NumberNode struct {
	integer bool
	min     *float64
	max     *float64
}

// Number returns a node accepting any finite number.
func Number() *NumberNode { return &NumberNode{} }

// Integer returns a node accepting integral numbers only.
func Integer() *NumberNode { return &NumberNode{integer: true} }

// Min sets the inclusive lower bound.
func (n *NumberNode) Min(f float64) *NumberNode { n.min = floatPtr(f); return n }

// Max sets the inclusive upper bound.
func (n *NumberNode) Max(f float64) *NumberNode { n.max = floatPtr(f); return n }

func (n *NumberNode) Check(v any, at PathRef) Issues {
	f, ok := numberValue(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": n.typeName()})}
	}
	if n.integer && !isInteger(f) {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "integer"})}
	}
	var iss Issues
	if n.min != nil && f < *n.min {
		iss = AppendIssues(iss, issueAt(at, CodeTooSmall, map[string]string{"limit": formatNumber(*n.min)}))
	}
	if n.max != nil && f > *n.max {
		iss = AppendIssues(iss, issueAt(at, CodeTooBig, map[string]string{"limit": formatNumber(*n.max)}))
	}
	return iss
}

func (n *NumberNode) typeName() string {
	if n.integer {
		return "integer"
	}
	return "number"
}

func (n *NumberNode) JSONSchema() *js.Schema {
	return &js.Schema{Type: n.typeName(), Minimum: n.min, Maximum: n.max}
}

func formatNumber(f float64) string {
	if isInteger(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ---- bool ----

type boolNode struct{}

// Bool returns a node accepting true or false.
func Bool() Node { return boolNode{} }

func (boolNode) Check(v any, at PathRef) Issues {
	if _, ok := v.(bool); !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "boolean"})}
	}
	return nil
}

func (boolNode) JSONSchema() *js.Schema { return &js.Schema{Type: "boolean"} }
