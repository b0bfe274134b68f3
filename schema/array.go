package schema

import (
	"strconv"

	js "github.com/blert-io/bcf/jsonschema"
)

// ArrayNode validates arrays whose elements all match one node.
type ArrayNode struct {
	elem   Node
	minLen int
	maxLen int
}

// Array returns an array node with the given element node.
func Array(elem Node) *ArrayNode {
	return &ArrayNode{elem: elem, minLen: -1, maxLen: -1}
}

// Min sets the minimum number of items.
func (a *ArrayNode) Min(n int) *ArrayNode { a.minLen = n; return a }

// Max sets the maximum number of items.
func (a *ArrayNode) Max(n int) *ArrayNode { a.maxLen = n; return a }

func (a *ArrayNode) Check(v any, at PathRef) Issues {
	src, ok := v.([]any)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "array"})}
	}
	var iss Issues
	if a.minLen >= 0 && len(src) < a.minLen {
		iss = AppendIssues(iss, issueAt(at, CodeTooShort, map[string]string{"limit": strconv.Itoa(a.minLen), "unit": "items"}))
	}
	if a.maxLen >= 0 && len(src) > a.maxLen {
		iss = AppendIssues(iss, issueAt(at, CodeTooLong, map[string]string{"limit": strconv.Itoa(a.maxLen), "unit": "items"}))
	}
	for i, el := range src {
		if child := a.elem.Check(el, at.Index(i)); len(child) > 0 {
			iss = AppendIssues(iss, child...)
		}
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func (a *ArrayNode) JSONSchema() *js.Schema {
	out := &js.Schema{Type: "array", Items: a.elem.JSONSchema()}
	if a.minLen >= 0 {
		out.MinItems = intPtr(a.minLen)
	}
	if a.maxLen >= 0 {
		out.MaxItems = intPtr(a.maxLen)
	}
	return out
}
