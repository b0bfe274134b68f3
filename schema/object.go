package schema

import (
	"fmt"
	"sort"

	js "github.com/blert-io/bcf/jsonschema"
)

type objectNode struct {
	fields        map[string]Node
	required      map[string]struct{}
	unknownPolicy UnknownPolicy
	desc          string
	sortedKeys    []string
}

type objectBuilder struct {
	fields        map[string]Node
	required      map[string]struct{}
	unknownPolicy UnknownPolicy
	desc          string
}

type fieldStep struct {
	b    *objectBuilder
	name string
}

// Object creates a new object builder with safe defaults (UnknownStrict).
func Object() *objectBuilder {
	return &objectBuilder{
		fields:        map[string]Node{},
		required:      map[string]struct{}{},
		unknownPolicy: UnknownStrict,
	}
}

// Field registers a field with its node.
func (b *objectBuilder) Field(name string, n Node) *fieldStep {
	b.fields[name] = n
	return &fieldStep{b: b, name: name}
}

// Required marks the field as required and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	f.b.required[f.name] = struct{}{}
	return f.b
}

func (f *fieldStep) Field(name string, n Node) *fieldStep { return f.b.Field(name, n) }
func (f *fieldStep) UnknownStrict() *objectBuilder        { return f.b.UnknownStrict() }
func (f *fieldStep) UnknownPassthrough() *objectBuilder   { return f.b.UnknownPassthrough() }
func (f *fieldStep) Unknown(p UnknownPolicy) *objectBuilder {
	return f.b.Unknown(p)
}
func (f *fieldStep) Build() (Node, error) { return f.b.Build() }
func (f *fieldStep) MustBuild() Node      { return f.b.MustBuild() }

// UnknownStrict sets unknown policy to Strict.
func (b *objectBuilder) UnknownStrict() *objectBuilder { return b.Unknown(UnknownStrict) }

// UnknownPassthrough sets unknown policy to Passthrough.
func (b *objectBuilder) UnknownPassthrough() *objectBuilder { return b.Unknown(UnknownPassthrough) }

// Unknown sets the unknown-key policy explicitly.
func (b *objectBuilder) Unknown(p UnknownPolicy) *objectBuilder {
	b.unknownPolicy = p
	return b
}

// Describe attaches a description to the exported JSON Schema.
func (b *objectBuilder) Describe(d string) *objectBuilder {
	b.desc = d
	return b
}

// Build validates the builder and returns an immutable node.
func (b *objectBuilder) Build() (Node, error) {
	for name := range b.required {
		if _, ok := b.fields[name]; !ok {
			return nil, fmt.Errorf("schema: required field %q is not declared", name)
		}
	}
	for name, n := range b.fields {
		if n == nil {
			return nil, fmt.Errorf("schema: field %q has no node", name)
		}
	}
	o := &objectNode{
		fields:        make(map[string]Node, len(b.fields)),
		required:      make(map[string]struct{}, len(b.required)),
		unknownPolicy: b.unknownPolicy,
		desc:          b.desc,
	}
	for k, v := range b.fields {
		o.fields[k] = v
		o.sortedKeys = append(o.sortedKeys, k)
	}
	for k := range b.required {
		o.required[k] = struct{}{}
	}
	sort.Strings(o.sortedKeys)
	return o, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

func (o *objectNode) Check(v any, at PathRef) Issues {
	src, ok := v.(map[string]any)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "object"})}
	}
	var iss Issues
	// known fields in key-sorted order for deterministic output
	for _, k := range o.sortedKeys {
		val, exists := src[k]
		if !exists {
			if _, req := o.required[k]; req {
				iss = AppendIssues(iss, issueAt(at.Field(k), CodeRequired, map[string]string{"key": k}))
			}
			continue
		}
		if child := o.fields[k].Check(val, at.Field(k)); len(child) > 0 {
			iss = AppendIssues(iss, child...)
		}
	}
	if o.unknownPolicy == UnknownStrict {
		iss = AppendIssues(iss, o.collectUnknown(src, at)...)
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// collectUnknown reports undeclared keys in key-sorted order.
func (o *objectNode) collectUnknown(src map[string]any, at PathRef) Issues {
	var uks []string
	for k := range src {
		if _, known := o.fields[k]; !known {
			uks = append(uks, k)
		}
	}
	sort.Strings(uks)
	var iss Issues
	for _, k := range uks {
		iss = AppendIssues(iss, issueAt(at.Field(k), CodeUnknownKey, map[string]string{"key": k}))
	}
	return iss
}

func (o *objectNode) JSONSchema() *js.Schema {
	props := make(map[string]*js.Schema, len(o.fields))
	for k, n := range o.fields {
		props[k] = n.JSONSchema()
	}
	req := make([]string, 0, len(o.required))
	for k := range o.required {
		req = append(req, k)
	}
	sort.Strings(req)
	out := &js.Schema{Type: "object", Description: o.desc, Properties: props, Required: req}
	if o.unknownPolicy == UnknownStrict {
		out.AdditionalProperties = false
	}
	return out
}
