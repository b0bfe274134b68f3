package schema

import (
	"fmt"
	"sort"

	js "github.com/blert-io/bcf/jsonschema"
)

// unionNode is a discriminated union over objects. The discriminator value
// selects the variant; an optional open variant catches unknown tags.
type unionNode struct {
	discriminator string
	mapping       map[string]Node
	tags          []string
	open          Node
}

type unionBuilder struct {
	discriminator string
	mapping       map[string]Node
	open          Node
}

// Union starts a discriminated union keyed by the given property.
func Union(discriminator string) *unionBuilder {
	return &unionBuilder{discriminator: discriminator, mapping: map[string]Node{}}
}

// Variant registers the node used when the discriminator equals tag.
func (b *unionBuilder) Variant(tag string, n Node) *unionBuilder {
	b.mapping[tag] = n
	return b
}

// Open registers a catch-all node for discriminator values that match no
// variant. Without it, unknown tags are rejected.
func (b *unionBuilder) Open(n Node) *unionBuilder {
	b.open = n
	return b
}

// Build validates the builder and returns an immutable node.
func (b *unionBuilder) Build() (Node, error) {
	if b.discriminator == "" {
		return nil, fmt.Errorf("schema: union requires a discriminator")
	}
	if len(b.mapping) == 0 {
		return nil, fmt.Errorf("schema: union %q has no variants", b.discriminator)
	}
	u := &unionNode{discriminator: b.discriminator, mapping: make(map[string]Node, len(b.mapping)), open: b.open}
	for tag, n := range b.mapping {
		u.mapping[tag] = n
		u.tags = append(u.tags, tag)
	}
	sort.Strings(u.tags)
	return u, nil
}

// MustBuild is like Build but panics on error.
func (b *unionBuilder) MustBuild() Node {
	n, err := b.Build()
	if err != nil {
		panic(err)
	}
	return n
}

// Tags returns the known discriminator values of a union node in sorted
// order, or nil when n is not a union.
func Tags(n Node) []string {
	u, ok := n.(*unionNode)
	if !ok {
		return nil
	}
	return append([]string(nil), u.tags...)
}

func (u *unionNode) Check(v any, at PathRef) Issues {
	m, ok := v.(map[string]any)
	if !ok {
		return Issues{issueAt(at, CodeInvalidType, map[string]string{"expected": "object"})}
	}
	tag, ok := m[u.discriminator].(string)
	if !ok {
		return Issues{issueAt(at.Field(u.discriminator), CodeDiscriminatorMissing, map[string]string{"key": u.discriminator})}
	}
	if n, ok := u.mapping[tag]; ok {
		return n.Check(v, at)
	}
	if u.open != nil {
		return u.open.Check(v, at)
	}
	return Issues{issueAt(at.Field(u.discriminator), CodeDiscriminatorUnknown, map[string]string{"key": u.discriminator, "allowed": quoteList(u.tags)})}
}

func (u *unionNode) JSONSchema() *js.Schema {
	variants := make([]*js.Schema, 0, len(u.tags))
	for _, tag := range u.tags {
		variants = append(variants, u.mapping[tag].JSONSchema())
	}
	if u.open == nil {
		return &js.Schema{OneOf: variants}
	}
	known := make([]any, len(u.tags))
	for i, tag := range u.tags {
		known[i] = tag
	}
	open := u.open.JSONSchema()
	if open.Properties == nil {
		open.Properties = map[string]*js.Schema{}
	}
	open.Properties[u.discriminator] = &js.Schema{Type: "string", Not: &js.Schema{Enum: known}}
	return &js.Schema{AnyOf: []*js.Schema{{OneOf: variants}, open}}
}
