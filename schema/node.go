package schema

import (
	"math"

	js "github.com/blert-io/bcf/jsonschema"
)

// Node is a compiled grammar fragment.
type Node interface {
	// Check validates v and returns every violation found, with paths rooted
	// at at. A nil result means v conforms.
	Check(v any, at PathRef) Issues
	// JSONSchema projects the node into a JSON Schema representation.
	JSONSchema() *js.Schema
}

// UnknownPolicy controls how undeclared object keys are handled.
type UnknownPolicy int

const (
	UnknownStrict      UnknownPolicy = iota // Reject unknown keys with an issue.
	UnknownPassthrough                      // Accept and ignore unknown keys.
)

// Validate runs n against v from the document root and returns the issues as
// an error, or nil.
func Validate(n Node, v any) error {
	if iss := n.Check(v, Root()); len(iss) > 0 {
		return iss
	}
	return nil
}

// numberValue extracts a float64 from any numeric representation produced by
// the JSON/YAML decoders or by Go callers building documents by hand.
func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case interface{ Float64() (float64, error) }:
		// json.Number from encoding/json or go-json.
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func isInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && math.Trunc(f) == f
}

func intPtr(n int) *int { return &n }

func floatPtr(f float64) *float64 { return &f }
